package artifact

import (
	"strings"

	"github.com/Masterminds/semver"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
)

// parseRange accepts npm style ranges where AND clauses are separated by spaces, e.g. ">=1.0.0 <2.0.0",
// in addition to the comma separated form.
func parseRange(r string) (*semver.Constraints, error) {
	if !strings.Contains(r, ",") && !strings.Contains(r, " - ") {
		ors := strings.Split(r, "||")
		for i, or := range ors {
			ors[i] = strings.Join(joinOperators(strings.Fields(or)), ",")
		}
		r = strings.Join(ors, "||")
	}

	c, err := semver.NewConstraint(r)
	if err != nil {
		return nil, &errors.ValidationError{Field: "supportedVersions", Reason: err.Error()}
	}
	return c, nil
}

// joinOperators glues a bare operator token such as ">=" to the version that follows it.
func joinOperators(fields []string) []string {
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.Trim(f, "<>=!~^") == "" && i+1 < len(fields) {
			f += fields[i+1]
			i++
		}
		out = append(out, f)
	}
	return out
}
