package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/pairgen/dataset"
)

// vocabulary is drawn on to build synthetic sentences.
var vocabulary = []string{
	"abandoned", "abstract", "achieved", "actually", "against", "ancient", "applause",
	"architectural", "arrive", "asserted", "asynchronous", "aware", "balancers", "became",
	"before", "beside", "binary", "blanketed", "bootloader", "branch", "breeze", "bright",
	"broke", "buffer", "burst", "butterfly", "canceled", "casting", "chandeliers",
	"child", "chose", "clock", "codependent", "collected", "collision", "command",
	"compiler", "condition", "consensus", "construct", "containers", "coral", "countless",
	"crash", "creating", "crossed", "curtains", "danced", "debugger", "decided",
	"decreased", "desert", "device", "direct", "distant", "docker", "dreamed", "drivers",
	"dunes", "echoed", "email", "encryption", "entanglement", "escaped", "event",
	"exception", "exists", "factory", "family", "features", "filed", "firewall", "flame",
	"float", "forest", "found", "freshly", "funds", "garden", "generalization", "gentle",
	"glowed", "grandmother", "gravity", "halls", "hands", "heart", "hidden", "hoping",
	"house", "hummed", "illuminating", "implement", "infinite", "injection",
	"integration", "interpretive", "invalidation", "itself", "kernel", "kubernetes",
	"lantern", "laughter", "learned", "legitimate", "lifted", "lightning", "listened",
	"longer", "machine", "manor", "meadow", "meeting", "meowed", "middle", "minds",
	"mosaic", "moved", "mutex", "needed", "network", "night", "number", "oddly",
	"opinions", "orchard", "other", "overloading", "paint", "paper", "passwords",
	"patterns", "people", "physicists", "pipeline", "pointed", "polymorphism",
	"preferences", "process", "project", "proxy", "quantum", "quiet", "rainbow", "reach",
	"recursively", "referential", "regex", "remained", "restless", "reunion", "riverbank",
	"rolled", "route", "rustled", "safely", "sandy", "scents", "scheduler", "secrets",
	"sentience", "seventeen", "shifting", "showed", "silence", "simmering", "single",
	"skyline", "small", "softly", "soothing", "spanish", "specks", "sporadically",
	"stage", "stars", "stateless", "steps", "stood", "storm", "strawberries", "stream",
	"strongly", "submarine", "sunlight", "superposition", "sweetest", "synchronized",
	"tangled", "template", "their", "third", "through", "thunderous", "times", "trail",
	"travel", "trust", "tuesdays", "turning", "uncoupled", "union", "until", "version",
	"virtual", "voted", "warmth", "watched", "waves", "whispered", "wildflowers",
	"within", "works", "yesterday",
}

var (
	outputDir = flag.String("output", "./corpus", "directory to write source files to")
	files     = flag.Int("files", 4, "number of source files")
	lines     = flag.Int("lines", 1000, "sentences per file")
	minWords  = flag.Int("min-words", 10, "minimum words in a long sentence")
	maxWords  = flag.Int("max-words", 30, "maximum words in a long sentence")
	dupRate   = flag.Float64("dup-rate", 0.05, "fraction of lines that repeat an earlier line")
	shortRate = flag.Float64("short-rate", 0.05, "fraction of lines too short to keep")
	seed      = flag.Uint64("seed", 1, "random seed")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// generator produces corpus lines.
type generator struct {
	rnd       *rand.Rand
	minWords  int
	maxWords  int
	dupRate   float64
	shortRate float64
}

func (g *generator) sentence(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = vocabulary[g.rnd.IntN(len(vocabulary))]
	}
	return strings.Join(words, " ")
}

// lines returns an iterator over count lines. Some lines repeat an earlier
// one and some are shorter than minWords.
func (g *generator) lines(count int) iter.Seq[string] {
	return func(yield func(string) bool) {
		var seen []string
		for range count {
			var line string
			switch r := g.rnd.Float64(); {
			case len(seen) > 0 && r < g.dupRate:
				line = seen[g.rnd.IntN(len(seen))]
			case r < g.dupRate+g.shortRate:
				line = g.sentence(1 + g.rnd.IntN(max(g.minWords-1, 1)))
			default:
				line = g.sentence(g.minWords + g.rnd.IntN(g.maxWords-g.minWords+1))
				seen = append(seen, line)
			}
			if !yield(line) {
				return
			}
		}
	}
}

// writeLines writes every line of source to path, one per line.
func writeLines(path string, source iter.Seq[string]) (int, error) {
	n := 0
	err := dataset.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		for line := range source {
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
			n++
		}
		return bw.Flush()
	})
	return n, err
}

func main() {
	flag.Parse()

	if *minWords < 2 || *maxWords < *minWords {
		slog.Error("invalid word bounds", "min-words", *minWords, "max-words", *maxWords)
		os.Exit(2)
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		panic(err)
	}

	gen := &generator{
		rnd:       rand.New(rand.NewPCG(*seed, 0)),
		minWords:  *minWords,
		maxWords:  *maxWords,
		dupRate:   *dupRate,
		shortRate: *shortRate,
	}

	for i := range *files {
		path := filepath.Join(*outputDir, fmt.Sprintf("synthetic_%03d.txt", i+1))
		n, err := writeLines(path, gen.lines(*lines))
		if err != nil {
			panic(err)
		}
		slog.Info("wrote source file", "path", path, "lines", n)
	}
}
