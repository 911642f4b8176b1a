package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xwui-dev/xwui/internal/errors"
)

func renderCmd(configDir *string) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render [path]",
		Short: "Render one page to HTML",
		Long: `Render resolves path against the demo routes and prints the
resulting document.

Examples:
  xwui render
  xwui render /users/7?tab=posts
  xwui render /about -o about.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 1 {
				path = args[0]
			}
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return errors.New("X401").Wrap(err)
				}
				defer f.Close()
				w = f
			}
			if err := runRender(*configDir, path, w, cmd.ErrOrStderr()); err != nil {
				return err
			}
			if out != "" {
				success(cmd.ErrOrStderr(), "Wrote %s", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	return cmd
}

func runRender(configDir, path string, w, logw io.Writer) error {
	if path == "" || path[0] != '/' {
		return errors.New("X400").WithDetail("Path must start with '/': " + path)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	s, err := newSite(cfg, "http://localhost"+path, logw)
	if err != nil {
		return err
	}
	defer s.close()

	s.doc.Load()
	if r := s.app.Router(); r != nil && !r.Matched() {
		return errors.New("X003").WithDetail("Nothing is registered for " + path)
	}
	if err := s.app.HTML(w); err != nil {
		return errors.New("X401").Wrap(err)
	}
	return nil
}
