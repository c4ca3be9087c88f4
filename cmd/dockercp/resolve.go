package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newResolveCmd(opts *options, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <container>",
		Short: "Print the host path of a container's root filesystem",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, closeResolver, err := newResolver(opts)
			if err != nil {
				return err
			}
			defer closeResolver()

			root, err := resolver.ResolveContainer(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}
			fmt.Fprintln(stdout, root)
			return nil
		},
	}
}
