package perm

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/goccy/go-graphviz"

	perrors "github.com/matzehuels/lehmer/pkg/errors"
)

// MaxTreeItems bounds the decision trees drawn by ToDOT. Five items already
// produce 120 leaves and 326 nodes.
const MaxTreeItems = 5

// ToDOT returns a Graphviz DOT representation of the decision tree the
// decoder walks for the given labels.
//
// Each level of the tree picks one of the remaining labels, ordered left to
// right by Lehmer digit, so leaves appear in rank order. Every leaf is
// labeled with its rank and the resulting permutation.
//
// If highlight is a valid rank its decode path is drawn in bold. Pass -1 to
// draw the plain tree. Any other out-of-range highlight fails with
// ErrOutOfRange, as does a label count above MaxTreeItems.
//
// The labels slice is not modified.
//
// Example:
//
//	dot, _ := perm.ToDOT([]string{"A", "B", "C"}, 3)
//	// Use 'dot' command or RenderSVG to visualize
func ToDOT(labels []string, highlight int64) (string, error) {
	if err := checkItems(labels); err != nil {
		return "", err
	}
	if len(labels) > MaxTreeItems {
		return "", perrors.New(perrors.ErrCodeOutOfRange, "tree of %d items exceeds %d", len(labels), MaxTreeItems)
	}

	w := &treeWriter{labels: labels}
	if highlight != -1 {
		if err := checkRank(highlight, len(labels)); err != nil {
			return "", err
		}
		w.path = digits(highlight, len(labels))
	}

	w.buf.WriteString("digraph Lehmer {\n")
	w.buf.WriteString("  rankdir=TB;\n")
	w.buf.WriteString("  bgcolor=\"transparent\";\n")
	w.buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n")
	w.buf.WriteString("  edge [arrowhead=none, fontname=\"SF Mono, Menlo, monospace\"];\n\n")

	w.node(Seq(len(labels)), nil, 0, 0, w.path != nil)

	w.buf.WriteString("}\n")
	return w.buf.String(), nil
}

// RenderSVG renders the decision tree as an SVG image.
//
// RenderSVG generates a DOT representation via ToDOT, then uses Graphviz to
// render it. The returned bytes are a complete SVG document. Errors from
// ToDOT are returned as-is; Graphviz failures are wrapped with
// INTERNAL_ERROR.
func RenderSVG(labels []string, highlight int64) ([]byte, error) {
	dot, err := ToDOT(labels, highlight)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "render")
	}
	return buf.Bytes(), nil
}

type treeWriter struct {
	buf    bytes.Buffer
	labels []string
	path   []int // Lehmer digits of the highlighted rank, nil if none
	next   int
}

// node writes the subtree for pool and returns its node ID. prefix holds the
// positions already placed and base the smallest rank in the subtree.
func (w *treeWriter) node(pool, prefix []int, depth int, base int64, onPath bool) int {
	id := w.next
	w.next++

	style := ""
	if onPath {
		style = ", penwidth=3"
	}

	if len(pool) == 0 {
		fmt.Fprintf(&w.buf, "  n%d [label=%q, shape=box, style=\"filled,rounded\"%s];\n", id, w.leafLabel(base, prefix), style)
		return id
	}

	if depth == 0 {
		fmt.Fprintf(&w.buf, "  n%d [label=\"%d!\", shape=ellipse%s];\n", id, len(pool), style)
	} else {
		fmt.Fprintf(&w.buf, "  n%d [label=\"\", shape=point, width=0.12%s];\n", id, style)
	}

	block := factorials[len(pool)-1]
	for i, p := range pool {
		childOn := onPath && w.path[depth] == i
		rest := slices.Delete(slices.Clone(pool), i, i+1)
		child := w.node(rest, append(slices.Clone(prefix), p), depth+1, base+int64(i)*block, childOn)

		edgeStyle := ""
		if childOn {
			edgeStyle = ", penwidth=3"
		}
		fmt.Fprintf(&w.buf, "  n%d -> n%d [label=%q%s];\n", id, child, w.labels[p], edgeStyle)
	}
	return id
}

func (w *treeWriter) leafLabel(rank int64, positions []int) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "#%d\n", rank)
	for i, p := range positions {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.labels[p])
	}
	return b.String()
}

// digits returns the Lehmer digits of rank for length n, most significant first.
func digits(rank int64, n int) []int {
	out := make([]int, n)
	for i := 0; i < n; i++ {
		block := factorials[n-1-i]
		out[i] = int(rank / block)
		rank %= block
	}
	return out
}
