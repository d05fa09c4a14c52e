package sqlinline

import (
	"regexp"
	"strings"
	"testing"
)

var markerPattern = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestEveryStatementCarriesAuditMarker(t *testing.T) {
	t.Parallel()
	statements := map[string]string{
		"QJobInsert":               QJobInsert,
		"QJobGet":                  QJobGet,
		"QJobGetForOwner":          QJobGetForOwner,
		"QJobListByOwner":          QJobListByOwner,
		"QJobUpdateCAS":            QJobUpdateCAS,
		"QJobClaimRunnable":        QJobClaimRunnable,
		"QJobReleaseLease":         QJobReleaseLease,
		"QJobCancelStaleApprovals": QJobCancelStaleApprovals,
		"QJobFailAbandoned":        QJobFailAbandoned,
		"QHistoryInsert":           QHistoryInsert,
		"QHistoryListByOwner":      QHistoryListByOwner,
		"QSettingsGet":             QSettingsGet,
		"QSettingsUpsert":          QSettingsUpsert,
		"QTemplateInsert":          QTemplateInsert,
		"QTemplateGetForOwner":     QTemplateGetForOwner,
		"QTemplateListByOwner":     QTemplateListByOwner,
		"QTemplateDelete":          QTemplateDelete,

		"QModelConfigInsert":      QModelConfigInsert,
		"QModelConfigGetForOwner": QModelConfigGetForOwner,
		"QModelConfigListByOwner": QModelConfigListByOwner,
		"QModelConfigUpdate":      QModelConfigUpdate,
		"QModelConfigDelete":      QModelConfigDelete,

		"QPromptTemplateInsert":      QPromptTemplateInsert,
		"QPromptTemplateGetForOwner": QPromptTemplateGetForOwner,
		"QPromptTemplateListByOwner": QPromptTemplateListByOwner,
		"QPromptTemplateUpdate":      QPromptTemplateUpdate,
		"QPromptTemplateDelete":      QPromptTemplateDelete,
	}
	seen := make(map[string]string, len(statements))
	for name, stmt := range statements {
		lines := strings.SplitN(strings.TrimSpace(stmt), "\n", 2)
		marker := strings.TrimSpace(lines[0])
		if !markerPattern.MatchString(marker) {
			t.Errorf("%s: first line %q is not a --sql <uuid> marker", name, marker)
			continue
		}
		if prev, dup := seen[marker]; dup {
			t.Errorf("%s reuses the marker of %s", name, prev)
		}
		seen[marker] = name
	}
}
