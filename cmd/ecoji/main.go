package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/quackduck/ecoji"
)

const longHelp = `Ecoji - Encode or decode data as emoji

Ecoji reads from FILE, or STDIN when FILE is missing or "-", and writes the result to STDOUT.
Every emoji carries 10 bits of data. Line breaks are ignored when decoding.

Examples:
   echo hello world | ecoji | ecoji -d                  # basic usage
   ecoji -w 0 < /bin/echo                               # one long line
   ecoji -o secret.txt notes.pdf && ecoji -d secret.txt # files

Set $ECOJI_BUFSIZE to change the buffer size. The default is 16384 bytes.`

type options struct {
	decode bool
	wrap   int
	output string
}

func bindFlags(fs *pflag.FlagSet, o *options) {
	fs.BoolVarP(&o.decode, "decode", "d", false, "decode data")
	fs.IntVarP(&o.wrap, "wrap", "w", 76, "wrap encoded lines after `cols` emoji, 0 disables wrapping")
	fs.StringVarP(&o.output, "output", "o", "", "write to `file` instead of STDOUT")
}

func newRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "ecoji [flags] [FILE]",
		Short:         "Encode or decode data as emoji",
		Long:          longHelp,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := stdin
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			out := stdout
			if o.output != "" {
				f, err := os.Create(o.output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return run(o, in, out)
		},
	}
	bindFlags(cmd.Flags(), o)
	return cmd
}

func run(o *options, in io.Reader, out io.Writer) error {
	c := ecoji.NewCoding(nil)
	if s := os.Getenv("ECOJI_BUFSIZE"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil {
			return errors.Wrap(err, "invalid buffer size")
		}
		c.SetBufferSize(size)
	}
	if o.decode {
		return c.Decode(out, in)
	}
	c.SetWrap(o.wrap)
	return c.Encode(out, in)
}

func main() {
	cmd := newRootCmd(os.Stdin, os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
