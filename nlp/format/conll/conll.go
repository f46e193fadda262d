package conll

// Package Conll reads ConLL format files
// For a description see http://ilk.uvt.nl/conll/#dataformat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	nlp "depbeam/nlp/types"

	"github.com/pkg/errors"
)

const (
	FIELD_SEPARATOR      = '\t'
	NUM_FIELDS           = 10
	MIN_FIELDS           = 8
	FEATURES_SEPARATOR   = "|"
	FEATURE_SEPARATOR    = "="
	FEATURE_CONCAT_DELIM = ","
	EMPTY                = "_"
)

type Features map[string]string

func (f Features) String() string {
	return FormatFeatures(f)
}

func FormatFeatures(feat map[string]string) string {
	if len(feat) == 0 {
		return EMPTY
	}
	strs := make([]string, 0, len(feat))
	for k, v := range feat {
		strs = append(strs, fmt.Sprintf("%v%v%v", k, FEATURE_SEPARATOR, v))
	}
	sort.Strings(strs)
	return strings.Join(strs, FEATURES_SEPARATOR)
}

// A Row is a single parsed row of a conll data set
// *Commented fields are not in use
type Row struct {
	ID      int
	Form    string
	Lemma   string
	CPosTag string
	PosTag  string
	Feats   Features
	// -1 when the head column is empty
	Head   int
	DepRel string
	// PHead int
	// PDepRel string
}

func formatString(value string) string {
	if value == "" {
		return EMPTY
	}
	return value
}

func (r Row) String() string {
	head := EMPTY
	if r.Head >= 0 {
		head = strconv.Itoa(r.Head)
	}
	fields := []string{
		strconv.Itoa(r.ID),
		r.Form,
		formatString(r.Lemma),
		formatString(r.CPosTag),
		formatString(r.PosTag),
		FormatFeatures(r.Feats),
		head,
		formatString(r.DepRel),
		EMPTY,
		EMPTY}
	return strings.Join(fields, string(FIELD_SEPARATOR))
}

// A Sentence is a map of Rows using their ids
type Sentence map[int]Row

type Sentences []Sentence

func ParseInt(value string) (int, error) {
	if value == EMPTY {
		return 0, nil
	}
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseString(value string) string {
	if value == EMPTY {
		return ""
	}
	return value
}

func ParseFeatures(featuresStr string) (Features, error) {
	var featureMap Features
	if featuresStr == EMPTY || featuresStr == "" {
		return featureMap, nil
	}

	featureList := strings.Split(featuresStr, FEATURES_SEPARATOR)
	featureMap = make(Features, len(featureList))
	for _, featureStr := range featureList {
		featureKV := strings.Split(featureStr, FEATURE_SEPARATOR)
		if len(featureKV) != 2 {
			return nil, errors.Errorf("wrong number of fields for split of feature %s", featureStr)
		}
		featName := featureKV[0]
		featValue := featureKV[1]
		existingFeatValue, featExist := featureMap[featName]
		if featExist {
			featureMap[featName] = existingFeatValue + FEATURE_CONCAT_DELIM + featValue
		} else {
			featureMap[featName] = featValue
		}
	}
	return featureMap, nil
}

// ParseRow reads the first eight columns of a record. HEAD and DEPREL may
// be empty for sentences that are yet to be parsed.
func ParseRow(record []string) (Row, error) {
	var row Row
	if len(record) < MIN_FIELDS {
		return row, errors.Errorf("expected at least %d fields, got %d", MIN_FIELDS, len(record))
	}
	id, err := ParseInt(record[0])
	if err != nil {
		return row, errors.Wrapf(err, "parsing ID field (%s)", record[0])
	}
	if id < 1 {
		return row, errors.Errorf("ID field must be positive, got %s", record[0])
	}
	row.ID = id

	form := ParseString(record[1])
	if form == "" {
		return row, errors.New("empty FORM field")
	}
	row.Form = form
	row.Lemma = ParseString(record[2])

	row.CPosTag = ParseString(record[3])
	row.PosTag = ParseString(record[4])
	if row.CPosTag == "" && row.PosTag == "" {
		return row, errors.New("empty CPOSTAG and POSTAG fields")
	}

	features, err := ParseFeatures(record[5])
	if err != nil {
		return row, errors.Wrapf(err, "parsing FEATS field (%s)", record[5])
	}
	row.Feats = features

	row.Head = -1
	if record[6] != EMPTY {
		head, err := ParseInt(record[6])
		if err != nil {
			return row, errors.Wrapf(err, "parsing HEAD field (%s)", record[6])
		}
		row.Head = head
	}
	row.DepRel = ParseString(record[7])
	return row, nil
}

// Read splits sentences on blank lines; lines starting with # are skipped.
func Read(reader io.Reader) (Sentences, error) {
	var (
		sentences   Sentences
		currentSent Sentence
		lineNum     int
	)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) > 0 && line[0] == '#' {
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			if currentSent != nil {
				sentences = append(sentences, currentSent)
				currentSent = nil
			}
			continue
		}
		row, err := ParseRow(strings.Split(line, string(FIELD_SEPARATOR)))
		if err != nil {
			return nil, errors.Wrapf(err, "line %d, sentence %d", lineNum, len(sentences)+1)
		}
		if currentSent == nil {
			currentSent = make(Sentence)
		}
		if row.ID != len(currentSent)+1 {
			return nil, errors.Errorf("line %d: expected ID %d, got %d", lineNum, len(currentSent)+1, row.ID)
		}
		currentSent[row.ID] = row
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading conll")
	}
	if currentSent != nil {
		sentences = append(sentences, currentSent)
	}
	return sentences, nil
}

func ReadFile(filename string) (Sentences, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	sents, err := Read(file)
	return sents, errors.Wrap(err, filename)
}

func Write(writer io.Writer, sents []Sentence) error {
	w := bufio.NewWriter(writer)
	for _, sent := range sents {
		for i := 1; i <= len(sent); i++ {
			row := sent[i]
			if _, err := w.WriteString(row.String() + "\n"); err != nil {
				return errors.WithStack(err)
			}
		}
		if err := w.WriteByte('\n'); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(w.Flush())
}

func WriteFile(filename string, sents []Sentence) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := Write(file, sents); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", filename)
	}
	return nil
}

// TaggedSentence takes the coarse tag as the part of speech, falling back to
// the fine one.
func (s Sentence) TaggedSentence() nlp.BasicTaggedSentence {
	tokens := make(nlp.BasicTaggedSentence, len(s))
	for i := 1; i <= len(s); i++ {
		row := s[i]
		pos := row.CPosTag
		if pos == "" {
			pos = row.PosTag
		}
		tokens[i-1] = nlp.TaggedToken{Token: row.Form, Lemma: row.Lemma, POS: pos, Index: i}
	}
	return tokens
}

// Conll2Graph reads the reference tree of a sentence; every row needs a head.
func Conll2Graph(sent Sentence) (*nlp.BasicDepGraph, error) {
	graph := nlp.NewBasicDepGraph(sent.TaggedSentence())
	for i := 1; i <= len(sent); i++ {
		row := sent[i]
		if row.Head < 0 || row.Head > len(sent) {
			return nil, errors.Errorf("token %d: head %d out of range", i, row.Head)
		}
		if row.Head == i {
			return nil, errors.Errorf("token %d is its own head", i)
		}
		graph.SetArc(row.Head, i, nlp.DepRel(row.DepRel))
	}
	return graph, nil
}

func Conll2GraphCorpus(corpus []Sentence) ([]*nlp.BasicDepGraph, error) {
	graphCorpus := make([]*nlp.BasicDepGraph, len(corpus))
	for i, sent := range corpus {
		graph, err := Conll2Graph(sent)
		if err != nil {
			return nil, errors.Wrapf(err, "sentence %d", i+1)
		}
		graphCorpus[i] = graph
	}
	return graphCorpus, nil
}

// Graph2Conll writes a parse over the tokens of sent, which may be nil. The
// columns the graph does not carry are copied from sent.
func Graph2Conll(graph nlp.DependencyGraph, sent Sentence) Sentence {
	tokens := graph.TaggedSentence().TaggedTokens()
	retval := make(Sentence, len(tokens))
	for i, token := range tokens {
		id := i + 1
		row, exists := sent[id]
		if !exists {
			row = Row{Form: token.Token, Lemma: token.Lemma, CPosTag: token.POS, PosTag: token.POS}
		}
		row.ID = id
		row.Head = graph.Head(id)
		row.DepRel = string(graph.Label(id))
		retval[id] = row
	}
	return retval
}

func Graph2ConllCorpus(corpus []nlp.DependencyGraph, sents []Sentence) []Sentence {
	sentCorpus := make([]Sentence, len(corpus))
	for i, graph := range corpus {
		var sent Sentence
		if i < len(sents) {
			sent = sents[i]
		}
		sentCorpus[i] = Graph2Conll(graph, sent)
	}
	return sentCorpus
}
