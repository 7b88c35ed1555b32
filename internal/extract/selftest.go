package extract

import (
	_ "embed"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed corpus.yaml
var corpusYAML []byte

// SelfTestSample is one known screenshot text with the values the engine must
// recover. The corpus covers distinct layouts and languages and acts as the
// regression net for the scoring weights.
type SelfTestSample struct {
	Name   string `yaml:"name"`
	Text   string `yaml:"text"`
	Expect struct {
		Distance float64 `yaml:"distance"`
		Duration string  `yaml:"duration"`
	} `yaml:"expect"`
}

type selfTestCorpus struct {
	Samples []SelfTestSample `yaml:"samples"`
}

// SelfTestCorpus returns the embedded sample corpus.
func SelfTestCorpus() ([]SelfTestSample, error) {
	var c selfTestCorpus
	if err := yaml.Unmarshal(corpusYAML, &c); err != nil {
		return nil, fmt.Errorf("decoding self-test corpus: %w", err)
	}
	return c.Samples, nil
}

// SelfTest runs the engine over the embedded corpus and fails if distance or
// duration is not recovered, or recovered wrongly, for any sample.
func SelfTest(e *Engine) error {
	samples, err := SelfTestCorpus()
	if err != nil {
		return err
	}
	ctx := &Context{ROISource: SourceSelfTest, PipelineName: "self_test"}
	var failures []string
	for _, s := range samples {
		res := e.Parse(s.Text, ctx)
		switch {
		case res.Values.Distance == nil:
			failures = append(failures, fmt.Sprintf("%s: distance not recovered", s.Name))
		case math.Abs(*res.Values.Distance-s.Expect.Distance) > 1e-9:
			failures = append(failures, fmt.Sprintf("%s: distance %v, want %v", s.Name, *res.Values.Distance, s.Expect.Distance))
		}
		switch {
		case res.Values.Duration == nil:
			failures = append(failures, fmt.Sprintf("%s: duration not recovered", s.Name))
		case res.Values.Duration.Display != s.Expect.Duration:
			failures = append(failures, fmt.Sprintf("%s: duration %s, want %s", s.Name, res.Values.Duration.Display, s.Expect.Duration))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("self-test failed:\n%s", strings.Join(failures, "\n"))
	}
	return nil
}
