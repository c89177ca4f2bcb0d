package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hupe1980/rangeread"
	"github.com/hupe1980/rangeread/testutil"
)

const genChunk = 1 << 20

func newGenCmd(newLogger func() (*rangeread.Logger, error)) *cobra.Command {
	var (
		size string
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "gen FILE",
		Short: "Write a file of deterministic pseudo-random bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			n, err := humanize.ParseBytes(size)
			if err != nil {
				return fmt.Errorf("invalid --size %q: %w", size, err)
			}
			if err := generate(args[0], n, seed); err != nil {
				return err
			}
			logger.InfoContext(cmd.Context(), "file written",
				"file", args[0],
				"size", humanize.IBytes(n),
				"seed", seed,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&size, "size", "256MiB", "file size, e.g. 512MiB or 2GB")
	cmd.Flags().Int64Var(&seed, "seed", 4711, "seed of the content generator")
	return cmd
}

// generate writes size bytes from a generator seeded with seed to path.
func generate(path string, size uint64, seed int64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	rng := testutil.NewRNG(seed)
	w := bufio.NewWriterSize(f, genChunk)
	chunk := make([]byte, genChunk)
	for left := size; left > 0; {
		n := min(left, genChunk)
		rng.Fill(chunk[:n])
		if _, err := w.Write(chunk[:n]); err != nil {
			return err
		}
		left -= n
	}
	return w.Flush()
}
