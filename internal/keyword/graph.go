package keyword

import (
	"maps"
	"slices"

	"github.com/fyerfyer/doc-summarizer/internal/textproc"
)

// node 图节点，持有去重后的入边和出边邻居集合
type node struct {
	incoming map[int]struct{}
	outgoing map[int]struct{}
}

// Graph 词共现有向图
// 每个词表词项对应一个节点，孤立节点同样保留
type Graph struct {
	nodes []node
}

// NewGraph 创建包含size个节点的空图
func NewGraph(size int) *Graph {
	g := &Graph{nodes: make([]node, size)}
	for i := range g.nodes {
		g.nodes[i] = node{
			incoming: make(map[int]struct{}),
			outgoing: make(map[int]struct{}),
		}
	}
	return g
}

// BuildGraph 根据句子中相邻词元构建共现图
// 对每对相邻词元 (t[k], t[k+1]) 添加一条 t[k] -> t[k+1] 的有向边
func BuildGraph(sentences [][]string, vocab *textproc.Vocabulary) *Graph {
	g := NewGraph(vocab.Len())
	for _, sentence := range sentences {
		for k := 0; k+1 < len(sentence); k++ {
			from, ok := vocab.Index(sentence[k])
			if !ok {
				continue
			}
			to, ok := vocab.Index(sentence[k+1])
			if !ok {
				continue
			}
			g.AddEdge(from, to)
		}
	}
	return g
}

// AddEdge 添加有向边 from -> to，重复边会被合并
func (g *Graph) AddEdge(from, to int) {
	g.nodes[from].outgoing[to] = struct{}{}
	g.nodes[to].incoming[from] = struct{}{}
}

// Len 返回节点数量
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Incoming 返回节点的入边邻居，按下标升序
func (g *Graph) Incoming(i int) []int {
	return slices.Sorted(maps.Keys(g.nodes[i].incoming))
}

// Outgoing 返回节点的出边邻居，按下标升序
func (g *Graph) Outgoing(i int) []int {
	return slices.Sorted(maps.Keys(g.nodes[i].outgoing))
}

// HasEdge 判断是否存在边 from -> to
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.nodes[from].outgoing[to]
	return ok
}
