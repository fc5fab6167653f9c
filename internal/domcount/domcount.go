// Package domcount measures document trees the same way the injected footer
// script does in the browser: a fast element count plus a cautious full walk
// over every node with an abort ceiling.
package domcount

import (
	"io"
	"time"

	"golang.org/x/net/html"
)

// DefaultCeiling is the node count above which the full walk aborts.
const DefaultCeiling = 30000

// Result captures both counts and their timings.
type Result struct {
	Elements  int     `json:"elements"`
	AllNodes  int     `json:"allnodes"`
	Truncated bool    `json:"truncated"`
	FastMS    float64 `json:"fast_ms"`
	WalkMS    float64 `json:"walk_ms"`
}

// CountElements returns the number of element nodes in the subtree rooted at
// n, including n itself when it is an element. It is the analogue of the
// client's tag-wildcard query.
func CountElements(n *html.Node) int {
	var count int

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	visit(n)
	return count
}

// WalkNodes counts every node in the subtree rooted at n (elements, text,
// comments, doctypes), including n itself. The walk aborts as soon as the
// running count exceeds ceiling, returning the count reached and true.
func WalkNodes(n *html.Node, ceiling int) (int, bool) {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	count := 0
	stack := []*html.Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count++
		if count > ceiling {
			return count, true
		}

		for c := node.FirstChild; c != nil; c = c.NextSibling {
			stack = append(stack, c)
		}
	}
	return count, false
}

// Count parses HTML from r and measures it:
//
//  1. Count elements with the fast path (always).
//  2. If the element count already exceeds the ceiling, skip the walk and
//     report the element count as the truncated all-node count.
//  3. Otherwise walk every node, aborting past the ceiling.
func Count(r io.Reader, ceiling int) (*Result, error) {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	fastStart := time.Now()
	result.Elements = CountElements(doc)
	result.FastMS = float64(time.Since(fastStart).Microseconds()) / 1000.0

	if result.Elements > ceiling {
		result.AllNodes = result.Elements
		result.Truncated = true
		return result, nil
	}

	walkStart := time.Now()
	result.AllNodes, result.Truncated = WalkNodes(doc, ceiling)
	result.WalkMS = float64(time.Since(walkStart).Microseconds()) / 1000.0

	return result, nil
}
