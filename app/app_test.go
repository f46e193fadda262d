package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"depbeam/nlp/format/conll"
	"depbeam/nlp/parser/dependency/oracle"
	"depbeam/nlp/parser/dependency/transition"
	nlp "depbeam/nlp/types"
)

const TEST_LABELS = `# labels
det
dobj
nsubj
root
`

const TEST_CORPUS = `1	The	the	DET	DT	_	2	det	_	_
2	cat	cat	NOUN	NN	_	3	nsubj	_	_
3	sat	sit	VERB	VBD	_	0	root	_	_

1	Go	go	VERB	VB	_	0	root	_	_
2	home	home	NOUN	NN	_	1	dobj	_	_
`

const TEST_RULES = `rules:
  - name: det attaches right
    if: S0|p=DET + N0|p=NOUN
    then: LeftArc[det]
`

func writeFile(t *testing.T, dir, name, content string) string {
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestLoadSettings(t *testing.T) {
	settings, err := LoadSettings([]byte("beam: 8\nsystem: standard\nmaxAnalysisTime: 1.5\nearlyStop: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if settings.Beam != 8 || settings.System != "standard" || !settings.EarlyStop {
		t.Error("Wrong settings", settings)
	}
	if settings.Scoring != "geometric" || settings.Comparison != "buffer" {
		t.Error("Expected defaults for missing keys", settings)
	}
	if settings.MaxAnalysisDuration() != 1500*time.Millisecond {
		t.Error("Wrong duration", settings.MaxAnalysisDuration())
	}
	if _, err := LoadSettings([]byte("beam: [")); err == nil {
		t.Error("Expected malformed settings to fail")
	}
}

func TestResolveSettings(t *testing.T) {
	dir := t.TempDir()
	labels := writeFile(t, dir, "labels.conf", TEST_LABELS)
	conf := writeFile(t, dir, "parser.yaml", "beam: 8\nsystem: standard\nlabels: "+labels+"\n")

	cmd := ParseCmd()
	if err := cmd.Flag.Parse([]string{"-conf", conf, "-b", "4"}); err != nil {
		t.Fatal(err)
	}
	settings, err := ResolveSettings(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if settings.Beam != 4 {
		t.Error("Expected flag to override file, got beam", settings.Beam)
	}
	if settings.System != "standard" || settings.Labels != labels {
		t.Error("Expected file values where no flag was set", settings)
	}

	cmd = ParseCmd()
	if err := cmd.Flag.Parse([]string{"-b", "4"}); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveSettings(cmd); err == nil {
		t.Error("Expected missing labels to fail")
	}
}

func TestEarlyStopUsage(t *testing.T) {
	usage := ParseCmd().Flag.Lookup("earlystop").Usage
	if !strings.Contains(usage, "terminal agenda") || !strings.Contains(usage, "full beam") {
		t.Error("Wrong -earlystop usage", usage)
	}
}

func TestNewBeam(t *testing.T) {
	dir := t.TempDir()
	settings := DefaultSettings()
	settings.Labels = writeFile(t, dir, "labels.conf", TEST_LABELS)
	settings.Rules = writeFile(t, dir, "rules.yaml", TEST_RULES)
	session, err := NewSession(settings)
	if err != nil {
		t.Fatal(err)
	}
	if len(session.Labels) != 4 || session.System != "eager" {
		t.Fatal("Wrong session", session)
	}
	beam, err := NewBeam(settings, session)
	if err != nil {
		t.Fatal(err)
	}
	if beam.Size != 64 || beam.Rules.Len() != 1 || beam.System.Name() != "eager" {
		t.Error("Wrong beam", beam.Name(), beam.Rules.Len())
	}

	settings.Scoring = "sum"
	if _, err := NewBeam(settings, session); err == nil {
		t.Error("Expected unknown scoring to fail")
	}
	settings.Scoring = "product"
	settings.Model = filepath.Join(dir, "missing.yaml")
	if _, err := NewBeam(settings, session); err == nil {
		t.Error("Expected missing model to fail")
	}
}

func corpus(t *testing.T) (conll.Sentences, []nlp.TaggedSentence) {
	sents, err := conll.Read(strings.NewReader(TEST_CORPUS))
	if err != nil {
		t.Fatal(err)
	}
	tagged := make([]nlp.TaggedSentence, len(sents))
	for i, sent := range sents {
		tagged[i] = sent.TaggedSentence()
	}
	return sents, tagged
}

func TestParseOrder(t *testing.T) {
	dir := t.TempDir()
	settings := DefaultSettings()
	settings.Labels = writeFile(t, dir, "labels.conf", TEST_LABELS)
	session, err := NewSession(settings)
	if err != nil {
		t.Fatal(err)
	}
	beam, err := NewBeam(settings, session)
	if err != nil {
		t.Fatal(err)
	}
	_, tagged := corpus(t)
	many := make([]nlp.TaggedSentence, 0, 20)
	for i := 0; i < 10; i++ {
		many = append(many, tagged...)
	}
	results, err := Parse(context.Background(), many, SharedBeam(beam), 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(many) {
		t.Fatal("Expected a result per sentence, got", len(results))
	}
	for i, result := range results {
		if expected := len(many[i].Tokens()) + 1; result.Configurations[0].NumberOfNodes() != expected {
			t.Errorf("Result %d out of order: %d nodes", i, result.Configurations[0].NumberOfNodes())
		}
	}

	failing := func(i int) (*transition.Beam, error) {
		if i == 3 {
			return &transition.Beam{}, nil
		}
		return beam, nil
	}
	if _, err := Parse(context.Background(), many, failing, 2); err == nil {
		t.Error("Expected an invalid beam to fail the corpus")
	}
}

func TestGoldBeams(t *testing.T) {
	dir := t.TempDir()
	settings := DefaultSettings()
	settings.Labels = writeFile(t, dir, "labels.conf", TEST_LABELS)
	session, err := NewSession(settings)
	if err != nil {
		t.Fatal(err)
	}
	beam, err := NewBeam(settings, session)
	if err != nil {
		t.Fatal(err)
	}
	sents, tagged := corpus(t)
	golds, err := conll.Conll2GraphCorpus(sents)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Parse(context.Background(), tagged, GoldBeams(beam, golds), 0)
	if err != nil {
		t.Fatal(err)
	}
	for i, result := range results {
		best := result.Configurations[0]
		for j := 1; j < golds[i].NumberOfNodes(); j++ {
			if best.Head(j) != golds[i].Head(j) || best.Label(j) != golds[i].Label(j) {
				t.Errorf("Sentence %d token %d: got (%d,%s)", i, j, best.Head(j), best.Label(j))
			}
		}
	}
	if _, ok := beam.Oracle.(*oracle.Uniform); !ok {
		t.Error("Shared beam must keep its own oracle")
	}
}

func TestParseRun(t *testing.T) {
	dir := t.TempDir()
	labels := writeFile(t, dir, "labels.conf", TEST_LABELS)
	in := writeFile(t, dir, "in.conll", TEST_CORPUS)
	out := filepath.Join(dir, "out.conll")

	cmd := ParseCmd()
	if err := cmd.Flag.Parse([]string{"-l", labels, "-in", in, "-oc", out, "-b", "4"}); err != nil {
		t.Fatal(err)
	}
	if err := ParseRun(cmd, nil); err != nil {
		t.Fatal(err)
	}
	parsed, err := conll.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 2 || len(parsed[0]) != 3 || parsed[0][1].PosTag != "DT" {
		t.Error("Wrong output", parsed)
	}
	for _, sent := range parsed {
		for id, row := range sent {
			if row.Head < 0 || row.Head > len(sent) || row.Head == id {
				t.Errorf("Bad head in %v", row)
			}
		}
	}
}

func TestEvalRun(t *testing.T) {
	dir := t.TempDir()
	labels := writeFile(t, dir, "labels.conf", TEST_LABELS)
	gold := writeFile(t, dir, "gold.conll", TEST_CORPUS)
	dist := filepath.Join(dir, "dist.csv")
	times := filepath.Join(dir, "time.csv")

	cmd := EvalCmd()
	if err := cmd.Flag.Parse([]string{"-l", labels, "-g", gold, "-dist", dist, "-time", times, "-b", "2"}); err != nil {
		t.Fatal(err)
	}
	if err := EvalRun(cmd, nil); err != nil {
		t.Fatal(err)
	}
	for _, filename := range []string{dist, times} {
		data, err := os.ReadFile(filename)
		if err != nil {
			t.Fatal(err)
		}
		if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) < 2 {
			t.Errorf("Expected a header and rows in %s, got %q", filename, data)
		}
	}
}
