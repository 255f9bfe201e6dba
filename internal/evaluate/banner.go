// banner.go renders the stderr banners that segment a long evaluation
// run: one per corpus, one per fold, one per learner/decoder combination.
// The formats are inherited from the harness's long-suffering users'
// scrollback habits; keep them grep-friendly.
package evaluate

import (
	"fmt"
	"strings"

	"github.com/irit-melodi/irit-rst-dt/internal/expconfig"
)

func corpusBanner(dataset string) string {
	rule := strings.Repeat("==========", 7)
	return strings.Join([]string{rule, dataset, rule}, "\n")
}

func foldBanner(dataset string, fold int) string {
	rule := strings.Repeat("==========", 6)
	return strings.Join([]string{
		rule,
		fmt.Sprintf("fold %d [%s]", fold, dataset),
		rule,
	}, "\n")
}

func evalBanner(dataset string, fold int, econf expconfig.EvalConfig) string {
	rule := strings.Repeat("----------", 3)
	return strings.Join([]string{
		rule,
		fmt.Sprintf("fold %d [%s]", fold, dataset),
		fmt.Sprintf("learner(s): %s", econf.Learner),
		fmt.Sprintf("decoder: %s", econf.Decoder.Decoder),
		rule,
	}, "\n")
}
