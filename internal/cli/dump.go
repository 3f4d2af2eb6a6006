package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/dicomtag/pkg/tree"
)

// printTree writes every row of model, fully expanded, as a table.
func printTree(out io.Writer, model *tree.Model) error {
	if model.State() == tree.StateEmpty {
		printDetail(out, "no DICOM file loaded")
		return nil
	}

	var rows [][]string
	var sequences []bool
	model.Walk(func(it *tree.Item, depth int) bool {
		rows = append(rows, []string{
			tagCell(it, depth, true),
			it.DisplayValue(tree.ColumnVR),
			flatten(it.DisplayValue(tree.ColumnValue)),
		})
		sequences = append(sequences, it.IsSequence())
		return true
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(StyleDim).
		Headers(headers(model)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == int(tree.ColumnVR) && row < len(sequences) && sequences[row] {
				return styleSequence
			}
			return lipgloss.NewStyle()
		})

	_, err := fmt.Fprintln(out, t.Render())
	return err
}

func headers(model *tree.Model) []string {
	h := make([]string, model.ColumnCount())
	for i := range h {
		h[i] = model.HeaderAt(tree.Column(i))
	}
	return h
}

// tagCell renders the Tag column with indentation and an expansion marker
// for containers.
func tagCell(it *tree.Item, depth int, expanded bool) string {
	marker := "  "
	if it.ChildCount() > 0 {
		if expanded {
			marker = iconExpanded + " "
		} else {
			marker = iconCollapsed + " "
		}
	}
	return strings.Repeat("  ", depth) + marker + it.DisplayValue(tree.ColumnTag)
}

// flatten keeps multi-line values on one row.
func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
