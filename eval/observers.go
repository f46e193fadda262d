package eval

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"depbeam/nlp/parser/dependency/transition"
	nlp "depbeam/nlp/types"
	"depbeam/util"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Observer follows an evaluation run: one OnParseEnd per sentence, in corpus
// order, then OnEvaluationComplete.
type Observer interface {
	OnParseEnd(gold nlp.DependencyGraph, result *transition.ParseResult)
	OnEvaluationComplete() error
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func writeCSV(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}

// AttachmentObserver accumulates unlabeled and labeled attachment scores of
// the best parse of every sentence.
type AttachmentObserver struct {
	SkipLabel nlp.DepRel
	Unlabeled Total
	Labeled   Total
	Backups   int
}

var _ Observer = &AttachmentObserver{}

func (o *AttachmentObserver) OnParseEnd(gold nlp.DependencyGraph, result *transition.ParseResult) {
	if o.Labeled.Results == nil {
		o.Labeled.Results = []*Result{}
	}
	best := result.Configurations[0]
	o.Unlabeled.Add(Attachment(gold, best, false, o.SkipLabel))
	o.Labeled.Add(Attachment(gold, best, true, o.SkipLabel))
	if result.Backup {
		o.Backups++
	}
}

func (o *AttachmentObserver) UAS() float64 {
	return o.Unlabeled.Recall()
}

func (o *AttachmentObserver) LAS() float64 {
	return o.Labeled.Recall()
}

// ErrorsByType counts the labeled attachment errors per class.
func (o *AttachmentObserver) ErrorsByType() map[string]int {
	return o.Labeled.Errors().ByType()
}

func (o *AttachmentObserver) OnEvaluationComplete() error {
	glog.Infof("Sentences: %d (%d from backup)", o.Labeled.Population, o.Backups)
	glog.Infof("UAS: %.2f LAS: %.2f Exact: %.2f", o.UAS()*100, o.LAS()*100, o.Labeled.ExactMatch()*100)
	glog.Infof("Labeled arcs: P %.2f R %.2f F1 %.2f", o.Labeled.Precision()*100, o.Labeled.Recall()*100, o.Labeled.F1()*100)
	byType := o.ErrorsByType()
	for _, class := range []string{NO_HEAD, WRONG_HEAD, WRONG_LABEL, WRONG_HEAD_WRONG_LABEL} {
		glog.Infof("%s:\t%d", class, byType[class])
	}
	return nil
}

type distanceScore struct {
	TP, FN   int
	Outcomes map[string]int
}

// DistanceObserver scores the best parse by the distance between a token
// and its gold head, and writes
//
//	distance,true+,false-,accuracy,above,below
//
// where above and below are the accuracies over all distances greater than,
// and at most, the row's distance.
type DistanceObserver struct {
	Labeled   bool
	SkipLabel nlp.DepRel
	Writer    io.Writer

	byDistance *treemap.Map
}

var _ Observer = &DistanceObserver{}

func NewDistanceObserver(w io.Writer, labeled bool) *DistanceObserver {
	return &DistanceObserver{Labeled: labeled, Writer: w, byDistance: treemap.NewWithIntComparator()}
}

func (o *DistanceObserver) score(distance int) *distanceScore {
	if value, found := o.byDistance.Get(distance); found {
		return value.(*distanceScore)
	}
	score := &distanceScore{Outcomes: make(map[string]int)}
	o.byDistance.Put(distance, score)
	return score
}

func (o *DistanceObserver) OnParseEnd(gold nlp.DependencyGraph, result *transition.ParseResult) {
	best := result.Configurations[0]
	for i := 1; i < gold.NumberOfNodes(); i++ {
		goldHead, goldLabel := gold.Head(i), gold.Label(i)
		if goldHead < 0 || (len(o.SkipLabel) > 0 && goldLabel == o.SkipLabel) {
			continue
		}
		score := o.score(util.AbsInt(goldHead - i))
		class := Classify(goldHead, goldLabel, best.Head(i), best.Label(i), o.Labeled)
		if class == "" {
			score.TP++
			class = "correct"
		} else {
			score.FN++
		}
		score.Outcomes[class]++
	}
}

// Score returns the true positives and false negatives at distance.
func (o *DistanceObserver) Score(distance int) (int, int) {
	if value, found := o.byDistance.Get(distance); found {
		score := value.(*distanceScore)
		return score.TP, score.FN
	}
	return 0, 0
}

func accuracy(tp, fn int) float64 {
	if tp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fn)
}

func (o *DistanceObserver) OnEvaluationComplete() error {
	records := [][]string{{"distance", "true+", "false-", "accuracy", "above", "below"}}
	keys := o.byDistance.Keys()
	for _, key := range keys {
		distance := key.(int)
		var belowTP, belowFN, aboveTP, aboveFN int
		for _, other := range keys {
			tp, fn := o.Score(other.(int))
			if other.(int) <= distance {
				belowTP += tp
				belowFN += fn
			} else {
				aboveTP += tp
				aboveFN += fn
			}
		}
		tp, fn := o.Score(distance)
		records = append(records, []string{
			strconv.Itoa(distance),
			strconv.Itoa(tp),
			strconv.Itoa(fn),
			formatFloat(accuracy(tp, fn) * 100),
			formatFloat(accuracy(aboveTP, aboveFN) * 100),
			formatFloat(accuracy(belowTP, belowFN) * 100),
		})
	}
	if o.Writer == nil {
		return nil
	}
	return writeCSV(o.Writer, records)
}

type timeStats struct {
	Count int
	Total time.Duration
}

// TimeByLengthObserver records parse time per sentence length and writes
//
//	length,count,mean,perToken
//
// with times in milliseconds.
type TimeByLengthObserver struct {
	Writer io.Writer

	byLength *treemap.Map
}

var _ Observer = &TimeByLengthObserver{}

func NewTimeByLengthObserver(w io.Writer) *TimeByLengthObserver {
	return &TimeByLengthObserver{Writer: w, byLength: treemap.NewWithIntComparator()}
}

func (o *TimeByLengthObserver) OnParseEnd(gold nlp.DependencyGraph, result *transition.ParseResult) {
	length := gold.NumberOfNodes() - 1
	var stats *timeStats
	if value, found := o.byLength.Get(length); found {
		stats = value.(*timeStats)
	} else {
		stats = new(timeStats)
		o.byLength.Put(length, stats)
	}
	stats.Count++
	stats.Total += result.Elapsed
}

// Mean returns the mean parse time of sentences of the given length.
func (o *TimeByLengthObserver) Mean(length int) (time.Duration, bool) {
	value, found := o.byLength.Get(length)
	if !found {
		return 0, false
	}
	stats := value.(*timeStats)
	return stats.Total / time.Duration(stats.Count), true
}

func (o *TimeByLengthObserver) OnEvaluationComplete() error {
	records := [][]string{{"length", "count", "mean", "perToken"}}
	glog.Info("length\tcount\tmean\tperToken")
	it := o.byLength.Iterator()
	for it.Next() {
		length, stats := it.Key().(int), it.Value().(*timeStats)
		mean := float64(stats.Total) / float64(stats.Count) / float64(time.Millisecond)
		perToken := mean
		if length > 0 {
			perToken = mean / float64(length)
		}
		glog.Infof("%d\t%d\t%s\t%s", length, stats.Count, formatFloat(mean), formatFloat(perToken))
		records = append(records, []string{strconv.Itoa(length), strconv.Itoa(stats.Count), formatFloat(mean), formatFloat(perToken)})
	}
	if o.Writer == nil {
		return nil
	}
	return writeCSV(o.Writer, records)
}
