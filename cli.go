package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nodeflow/internal/editor"
	"nodeflow/internal/persist"
)

var (
	brand  = color.New(color.FgHiCyan, color.Bold)
	subtle = color.New(color.FgHiBlack)
	warn   = color.New(color.FgYellow)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
)

var errCheckFailed = errors.New("check failed")

func statusIcon(ok bool) string {
	if ok {
		return good.Sprint("✓")
	}
	return bad.Sprint("✗")
}

// openHeadless loads path into an editor without a terminal, with every
// port placed by the grid layout.
func openHeadless(path string, log *slog.Logger) (*editor.Editor, *persist.Report, error) {
	ed := editor.New(newLayout(), editor.WithLogger(log))
	report, err := ed.Load(path)
	if err != nil {
		ed.Close()
		return nil, nil, err
	}
	return ed, report, nil
}

func exportCmd(root *rootOptions) *cobra.Command {
	var width int
	cmd := &cobra.Command{
		Use:   "export <file> <out.png|out.txt>",
		Short: "Render a graph to a PNG image or a text drawing",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := setup(root)
			if err != nil {
				return err
			}
			defer logger.Close()

			ed, report, err := openHeadless(args[0], logger.Slog())
			if err != nil {
				return err
			}
			defer ed.Close()
			if !report.OK() {
				warn.Fprintf(cmd.ErrOrStderr(), "%s loaded with %d problems\n", args[0], len(report.Problems))
			}

			out := args[1]
			if strings.EqualFold(filepath.Ext(out), ".txt") {
				err = exportVisualTXT(renderAll(ed, width), out)
			} else {
				err = exportPNG(ed.Graph, ed.ZOrder.Ordered(), out)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", out, err)
			}
			logger.Info("exported", "file", args[0], "out", out)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", statusIcon(true), out)
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "text export width in columns (default: fit the graph)")
	return cmd
}

// renderAll draws the whole graph as text, panned so it starts at the top
// left.
func renderAll(ed *editor.Editor, width int) []string {
	view := ed.View()
	var cols, rows int
	first := true
	for _, n := range ed.Graph.Nodes() {
		b := n.Bounds()
		if first || b.X < view.Pan.X {
			view.Pan.X = b.X
		}
		if first || b.Y < view.Pan.Y {
			view.Pan.Y = b.Y
		}
		first = false
	}
	ed.SetView(view)
	for _, n := range ed.Graph.Nodes() {
		_, br := nodeCells(view, n)
		cols = max(cols, br.X+1)
		rows = max(rows, br.Y+1)
	}
	if width > 0 {
		cols = width
	}
	return render(ed.Graph, ed.ZOrder.Ordered(), view, cols, rows, renderOptions{})
}

func checkCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Load graph files and report problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				if !checkFile(cmd.OutOrStdout(), path, strict) {
					failed = true
				}
			}
			if failed {
				return errCheckFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat recoverable load problems as failures")
	return cmd
}

// checkFile prints a summary for one file and reports whether it passed.
func checkFile(w io.Writer, path string, strict bool) bool {
	g, report, err := persist.LoadFile(path)
	if err != nil {
		fmt.Fprintf(w, "%s %s\n    %s\n", statusIcon(false), brand.Sprint(path), bad.Sprint(err))
		return false
	}

	verr := g.Verify()
	ok := verr == nil && (!strict || report.OK())
	fmt.Fprintf(w, "%s %s  %s\n", statusIcon(ok), brand.Sprint(path),
		subtle.Sprintf("%d nodes, %d connections", g.NodeCount(), g.ConnectionCount()))
	for _, p := range report.Problems {
		fmt.Fprintf(w, "    %s %v\n", warn.Sprint("!"), p)
	}
	if verr != nil {
		for _, line := range strings.Split(verr.Error(), "\n") {
			fmt.Fprintf(w, "    %s\n", bad.Sprint(line))
		}
	}
	return ok
}
