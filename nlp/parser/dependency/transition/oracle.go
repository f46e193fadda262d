package transition

// Oracle proposes ranked decisions for a configuration. It must be
// deterministic for a given configuration, and safe for concurrent use if a
// Beam is shared between goroutines.
type Oracle interface {
	Decide(c *SimpleConfiguration) ([]Decision, error)
}

type OracleFunc func(c *SimpleConfiguration) ([]Decision, error)

func (f OracleFunc) Decide(c *SimpleConfiguration) ([]Decision, error) {
	return f(c)
}

type FeatureResult struct {
	Name  string
	Value interface{}
}

// FeatureReporter is implemented by oracles that can expose the features a
// decision was based on.
type FeatureReporter interface {
	Features(c *SimpleConfiguration) []FeatureResult
}

// Observer is notified after each oracle call with the configuration, the
// oracle's features (if it reports any) and the unpruned decisions. It gets
// its own clone of the configuration and cannot influence the search.
type Observer interface {
	OnAnalyse(c *SimpleConfiguration, features []FeatureResult, decisions []Decision)
}

type ObserverFunc func(c *SimpleConfiguration, features []FeatureResult, decisions []Decision)

func (f ObserverFunc) OnAnalyse(c *SimpleConfiguration, features []FeatureResult, decisions []Decision) {
	f(c, features, decisions)
}
