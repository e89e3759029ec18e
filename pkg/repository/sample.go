package repository

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/secmon-lab/defectlens/pkg/domain/model"
	"github.com/secmon-lab/defectlens/pkg/domain/types"
)

// Sample vocabularies reproduce the naming drift of real trackers: the
// same component or defect appears under several spellings.
var (
	sampleComponents = []string{
		"Authentication Module", "auth-module", "Auth System", "authentication_service",
		"Payment Gateway", "payment-processor", "PaymentGateway", "payment_api",
		"User Dashboard", "dashboard", "user-ui", "Dashboard Component",
		"API Gateway", "api-gateway", "API_Gateway", "gateway-service",
		"Database Layer", "db-layer", "DatabaseService", "data_layer",
		"Notification System", "notifications", "NotificationService", "notify-service",
		"File Upload", "upload-module", "FileUploadService", "file_handler",
		"Search Engine", "search", "SearchService", "search-api",
	}
	sampleTitles = []string{
		"Null Pointer Exception", "NullPointerException", "NPE", "null reference",
		"Memory Leak", "memory-leak", "Memory Issue", "mem leak",
		"Race Condition", "race condition", "concurrency issue", "thread safety",
		"SQL Injection", "SQLInjection", "sql-injection", "injection vulnerability",
		"Authentication Bypass", "auth bypass", "AuthBypass", "authentication failure",
		"UI Rendering Bug", "ui-bug", "rendering issue", "display problem",
		"Performance Degradation", "performance issue", "slow response", "perf-bug",
		"Data Validation Error", "validation-error", "invalid data", "validation bug",
	}
	sampleSeverities = []string{
		"Critical", "critical", "CRITICAL", "High", "high", "HIGH",
		"Medium", "medium", "Med", "Low", "low", "LOW",
	}
	sampleStatuses = []string{
		"Open", "open", "OPEN", "In Progress", "in-progress", "In-Progress",
		"Closed", "closed", "CLOSED", "Resolved", "resolved",
	}
	sampleOwners = []string{
		"john.doe@company.com", "jane.smith@company.com", "bob.wilson@company.com", "alice.brown@company.com",
		"charlie.davis@company.com", "diana.miller@company.com", "eric.taylor@company.com", "", "unassigned",
	}
	sampleReleases = []string{
		"v1.2.0", "v1.2.1", "v1.3.0", "v1.3.1", "v1.4.0", "v2.0.0", "v2.1.0", "TBD", "unknown",
	}
)

// SampleOptions controls GenerateSample
type SampleOptions struct {
	Count int
	Seed  uint64
	// Start is the earliest created_at; records spread over the following 180 days
	Start time.Time
}

// GenerateSample builds a messy but valid dataset. The same options always
// produce the same records. Roughly 15% of records lack owner and often
// component, 20% lack a description, and 8% are re-reported a day or two
// later under a new ID.
func GenerateSample(opts SampleOptions) []*model.DefectRecord {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	pick := func(values []string) string {
		return values[rng.IntN(len(values))]
	}

	records := make([]*model.DefectRecord, 0, opts.Count+opts.Count/10)
	for i := 0; i < opts.Count; i++ {
		missingFields := rng.Float64() < 0.15
		duplicate := rng.Float64() < 0.08
		shouting := rng.Float64() < 0.25

		created := opts.Start.UTC().
			Add(time.Duration(rng.IntN(181)) * 24 * time.Hour).
			Add(time.Duration(rng.IntN(24)) * time.Hour)

		severity := pick(sampleSeverities)
		if shouting {
			severity = strings.ToUpper(severity)
		}

		status := pick(sampleStatuses)
		var resolved *time.Time
		if parsed, err := types.ParseDefectStatus(status); err == nil && !parsed.IsOpen() {
			r := created.Add(time.Duration(sampleResolutionDays(rng, severity)) * 24 * time.Hour)
			resolved = &r
		}

		r := &model.DefectRecord{
			ID:         types.DefectID(fmt.Sprintf("DEF-%d", 1000+i)),
			Title:      pick(sampleTitles),
			Severity:   types.Severity(severity),
			Status:     types.DefectStatus(status),
			CreatedAt:  created,
			ResolvedAt: resolved,
			Release:    types.ReleaseTag(pick(sampleReleases)),
		}
		if !missingFields || rng.Float64() > 0.3 {
			r.Component = pick(sampleComponents)
		}
		if !missingFields {
			r.Owner = pick(sampleOwners)
		}
		if rng.Float64() > 0.2 {
			r.Description = "Issue with " + pick(sampleComponents)
		}
		records = append(records, r)

		if duplicate {
			dup := copyDefect(r)
			dup.ID = types.DefectID(fmt.Sprintf("DEF-%d-DUP", 1000+i))
			shift := time.Duration(1+rng.IntN(48)) * time.Hour
			dup.CreatedAt = created.Add(shift)
			if dup.ResolvedAt != nil {
				moved := dup.ResolvedAt.Add(shift)
				dup.ResolvedAt = &moved
			}
			records = append(records, dup)
		}
	}

	return records
}

// sampleResolutionDays makes severe defects close faster
func sampleResolutionDays(rng *rand.Rand, severity string) int {
	s, err := types.ParseSeverity(severity)
	if err != nil {
		return 1 + rng.IntN(40)
	}
	switch s {
	case types.SeverityCritical, types.SeverityHigh:
		return 1 + rng.IntN(10)
	case types.SeverityMedium:
		return 5 + rng.IntN(16)
	default:
		return 10 + rng.IntN(31)
	}
}
