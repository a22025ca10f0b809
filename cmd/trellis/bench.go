package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vango-dev/trellis/pkg/memdom"
	"github.com/vango-dev/trellis/pkg/patch"
	"github.com/vango-dev/trellis/pkg/platform"
	"github.com/vango-dev/trellis/pkg/vdom"
)

// scenario rearranges a list of keys.
type scenario struct {
	name    string
	reorder func(keys []int, rng *rand.Rand) []int
}

var scenarios = []scenario{
	{"append", func(k []int, _ *rand.Rand) []int { return append(k, len(k)) }},
	{"prepend", func(k []int, _ *rand.Rand) []int { return append([]int{-1}, k...) }},
	{"remove-middle", func(k []int, _ *rand.Rand) []int {
		m := len(k) / 2
		return append(k[:m:m], k[m+1:]...)
	}},
	{"swap-ends", func(k []int, _ *rand.Rand) []int {
		k[0], k[len(k)-1] = k[len(k)-1], k[0]
		return k
	}},
	{"rotate", func(k []int, _ *rand.Rand) []int { return append(k[1:], k[0]) }},
	{"reverse", func(k []int, _ *rand.Rand) []int {
		for i, j := 0, len(k)-1; i < j; i, j = i+1, j-1 {
			k[i], k[j] = k[j], k[i]
		}
		return k
	}},
	{"shuffle", func(k []int, rng *rand.Rand) []int {
		rng.Shuffle(len(k), func(i, j int) { k[i], k[j] = k[j], k[i] })
		return k
	}},
	{"replace-all", func(k []int, _ *rand.Rand) []int {
		for i := range k {
			k[i] += len(k)
		}
		return k
	}},
}

// result is the outcome of one scenario.
type result struct {
	counts  memdom.Counts
	elapsed time.Duration
}

func benchCmd(g *globals) *cobra.Command {
	var (
		size int
		runs int
		seed uint64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure the keyed children diff",
		Long: `Patch a keyed list through common rearrangements and report the
DOM operations and time each one takes.

Examples:
  trellis bench
  trellis bench --size=10000 --runs=5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 2 {
				return fmt.Errorf("size must be at least 2")
			}
			if runs < 1 {
				return fmt.Errorf("runs must be at least 1")
			}
			return runBench(cmd.OutOrStdout(), size, runs, seed)
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 1000, "Number of list items")
	cmd.Flags().IntVarP(&runs, "runs", "r", 3, "Runs per scenario; the fastest is reported")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "Seed of the shuffle scenario")

	return cmd
}

func runBench(w io.Writer, size, runs int, seed uint64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "scenario\tcreates\tinserts\tmoves\tremoves\ttime\t")
	for _, sc := range scenarios {
		var best result
		for i := range runs {
			res := runScenario(sc, size, rand.New(rand.NewPCG(seed, 0)))
			if i == 0 || res.elapsed < best.elapsed {
				best = res
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			sc.name,
			humanize.Comma(int64(best.counts.Creates)),
			humanize.Comma(int64(best.counts.Inserts)),
			humanize.Comma(int64(best.counts.Moves)),
			humanize.Comma(int64(best.counts.Removes)),
			best.elapsed.Round(time.Microsecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s items, best of %d runs\n", humanize.Comma(int64(size)), runs)
	return err
}

// runScenario mounts a list of size keyed items, patches it to the
// rearranged list and reports the mutations of the patch alone.
func runScenario(sc scenario, size int, rng *rand.Rand) result {
	doc := memdom.NewDocument()
	p := patch.New(doc, doc, patch.WithPredicates(platform.HTML{}))

	keys := make([]int, size)
	for i := range keys {
		keys[i] = i
	}
	old := keyedList(keys)
	root := doc.Build(vdom.Div())
	doc.Attach(doc.Body(), root)
	p.Mount(root, old, false)

	next := keyedList(sc.reorder(append([]int(nil), keys...), rng))
	doc.ResetLog()
	start := time.Now()
	p.Patch(old, next)
	return result{counts: doc.Counts(), elapsed: time.Since(start)}
}

func keyedList(keys []int) *vdom.VNode {
	items := make([]*vdom.VNode, len(keys))
	for i, k := range keys {
		items[i] = vdom.Li(vdom.Key(k), vdom.Text(strconv.Itoa(k)))
	}
	return vdom.Ul(items)
}
