package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// ErrInsufficientPrompts is returned when the corpus holds fewer usable
// prompts than requested.
var ErrInsufficientPrompts = errors.New("not enough usable prompts in corpus")

// Options controls prompt selection.
type Options struct {
	// Count is the number of prompts to select. Zero or negative selects
	// every usable prompt in the corpus.
	Count int
	// LenSoftMax splits prompts longer than this many characters at the
	// next whitespace run. Zero disables splitting.
	LenSoftMax int
	// Ordered keeps corpus order instead of shuffling.
	Ordered bool
	// Seed makes the shuffle reproducible. Zero seeds from the clock.
	Seed int64
}

// Corpus-specific wrappers stripped from prompt lines.
var unwrapPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\w+ "(.*)"$`),     // arctic: id "text"
	regexp.MustCompile(`^(.*) \(s.\d+\)$`), // timit: text (sN)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Load reads a prompt corpus and returns the selected prompt texts in
// session order. Lines starting with ';' are comments.
func Load(path string, opts Options) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prompts file: %w", err)
	}
	defer f.Close()

	var prompts []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		prompts = append(prompts, unwrap(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read prompts file: %w", err)
	}

	count := opts.Count
	if count <= 0 {
		count = len(prompts)
	}
	if len(prompts) < count {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrInsufficientPrompts, len(prompts), count)
	}

	if !opts.Ordered {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(prompts), func(i, j int) {
			prompts[i], prompts[j] = prompts[j], prompts[i]
		})
	}
	prompts = prompts[:count]

	if opts.LenSoftMax > 0 {
		var split []string
		for _, p := range prompts {
			split = append(split, splitPrompt(p, opts.LenSoftMax)...)
		}
		// Splitting can only grow the list; keep the session at the
		// requested length.
		prompts = split[:count]
	}

	return prompts, nil
}

// CorpusName returns the corpus identifier used in take filenames: the
// prompt file's basename without extension.
func CorpusName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func unwrap(line string) string {
	for _, pat := range unwrapPatterns {
		line = pat.ReplaceAllString(line, "$1")
	}
	return line
}

// splitPrompt breaks text into chunks of roughly softMax characters,
// splitting only at whitespace. The cap is soft: a chunk with no whitespace
// past the cap is kept whole.
func splitPrompt(text string, softMax int) []string {
	if len(text) <= softMax {
		return []string{text}
	}
	var parts []string
	for start := 0; start < len(text); {
		if len(text)-start <= softMax {
			parts = append(parts, strings.TrimSpace(text[start:]))
			break
		}
		loc := whitespaceRun.FindStringIndex(text[start+softMax:])
		if loc == nil {
			parts = append(parts, strings.TrimSpace(text[start:]))
			break
		}
		parts = append(parts, strings.TrimSpace(text[start:start+softMax+loc[0]]))
		start = start + softMax + loc[1]
	}
	return parts
}
