// Package prefixlen assigns length-limited canonical Huffman code
// lengths.
package prefixlen

import "container/heap"

// Default builds an ordinary Huffman tree and, if its depth exceeds the
// caller's cap, repeatedly flattens the frequency distribution and
// rebuilds until it fits. This is the technique the original bzip2
// encoder uses for the same problem: each rebuild is a genuine optimal
// Huffman tree, so Kraft's equality holds by construction at every step
// for two or more symbols (a single symbol gets length 1),
// and repeated halving is guaranteed to converge (a perfectly flat
// distribution over n symbols has depth at most ceil(log2 n)).
type Default struct{}

type node struct {
	weight      uint64
	seq         int
	leaf        int // index into the frequency slice, or -1 for an internal node
	left, right *node
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)   { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func buildTree(freq []uint64) (depth []int, maxDepth int) {
	n := len(freq)
	depth = make([]int, n)
	if n == 1 {
		depth[0] = 1
		return depth, 1
	}

	h := make(nodeHeap, n)
	for i, w := range freq {
		h[i] = &node{weight: w, seq: i, leaf: i}
	}
	heap.Init(&h)

	seq := n
	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		parent := &node{weight: a.weight + b.weight, seq: seq, leaf: -1, left: a, right: b}
		seq++
		heap.Push(&h, parent)
	}

	var walk func(nd *node, d int)
	walk = func(nd *node, d int) {
		if nd.leaf >= 0 {
			depth[nd.leaf] = d
			if d > maxDepth {
				maxDepth = d
			}
			return
		}
		walk(nd.left, d+1)
		walk(nd.right, d+1)
	}
	walk(h[0], 0)
	return depth, maxDepth
}

// Assign implements the bzip2block.LengthAllocator contract.
func (Default) Assign(freqSortedAscending []uint32, maxLen int) []uint8 {
	n := len(freqSortedAscending)
	if n == 0 {
		return nil
	}

	work := make([]uint64, n)
	for i, f := range freqSortedAscending {
		if f == 0 {
			work[i] = 1
		} else {
			work[i] = uint64(f)
		}
	}

	lengths := make([]uint8, n)
	for {
		depth, maxDepth := buildTree(work)
		if maxDepth <= maxLen {
			for i, d := range depth {
				lengths[i] = uint8(d)
			}
			return lengths
		}
		for i := range work {
			work[i] = work[i]/2 + 1
		}
	}
}
