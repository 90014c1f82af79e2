package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/values"
)

type sarifMapper struct {
	result      *execution.CheckResult
	profilePath string
	cwd         string
	artifacts   map[string]*sarif.Artifact
	order       []string
}

func newSARIFMapper(result *execution.CheckResult, profilePath string) *sarifMapper {
	cwd, _ := os.Getwd() // best effort
	return &sarifMapper{
		result:      result,
		profilePath: profilePath,
		cwd:         cwd,
		artifacts:   make(map[string]*sarif.Artifact),
	}
}

// mapToRun populates the SARIF run with rules, results, artifacts and the invocation.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addArtifacts(run)
	m.addInvocation(run)
	m.addProperties(run)
}

func (m *sarifMapper) addRules(run *sarif.Run) {
	for _, sr := range m.result.Series {
		rule := sarif.NewReportingDescriptor().WithID(sr.Code)
		rule.WithName(sr.Name)

		name := sr.Name
		rule.WithShortDescription(&sarif.MultiformatMessageString{
			Text: &name,
		})

		desc := sr.Description
		if desc == "" {
			desc = sr.Name
		}
		rule.WithFullDescription(&sarif.MultiformatMessageString{
			Text: &desc,
		})

		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{
			Level: m.mapSeverityToLevel(sr.Severity),
		})

		props := sarif.NewPropertyBag()
		if len(sr.Tags) > 0 {
			props.WithTags(sr.Tags)
		}
		if sr.Severity != "" {
			props.Add("severity", sr.Severity)
		}
		rule.WithProperties(props)

		run.Tool.Driver.AddRule(rule)
	}
}

func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, sr := range m.result.Series {
		run.AddResult(m.mapSeriesResult(sr))
	}
}

func (m *sarifMapper) mapSeriesResult(sr execution.SeriesResult) *sarif.Result {
	result := sarif.NewRuleResult(sr.Code)
	result.Level = m.mapStatusToLevel(sr.Status, sr.Severity)
	result.Kind = m.mapStatusToKind(sr.Status)

	msg := sr.Message
	if msg == "" {
		msg = m.generateDefaultMessage(sr)
	}
	result.Message = sarif.NewTextMessage(msg)

	if m.profilePath != "" {
		result.Locations = []*sarif.Location{m.createLocation(m.profilePath, "profile")}
	}

	props := sarif.NewPropertyBag()
	if sr.Evaluation != nil {
		props.Add("evaluation", sr.Evaluation)
	}
	if len(sr.Expectations) > 0 {
		props.Add("expectations", sr.Expectations)
	}
	if len(sr.Tags) > 0 {
		props.WithTags(sr.Tags)
	}
	if sr.Severity != "" {
		props.Add("severity", sr.Severity)
	}
	if sr.SkipReason != "" {
		props.Add("skipReason", sr.SkipReason)
	}
	result.WithProperties(props)

	return result
}

// mapStatusToLevel converts a series status and severity to a SARIF level.
func (m *sarifMapper) mapStatusToLevel(status values.Status, severity string) string {
	switch status {
	case values.StatusPass:
		return "note"
	case values.StatusFail:
		return m.mapSeverityToLevel(severity)
	case values.StatusError:
		return "error"
	case values.StatusSkipped:
		return "none"
	default:
		return "warning"
	}
}

func (m *sarifMapper) mapStatusToKind(status values.Status) string {
	switch status {
	case values.StatusPass:
		return "pass"
	case values.StatusSkipped:
		return "notApplicable"
	default:
		return "fail"
	}
}

func (m *sarifMapper) mapSeverityToLevel(severity string) string {
	switch severity {
	case "critical", "high":
		return "error"
	default:
		return "warning"
	}
}

func (m *sarifMapper) createLocation(path, role string) *sarif.Location {
	uri := m.registerArtifact(path, role)

	pLoc := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewArtifactLocation().WithURI(uri))

	return sarif.NewLocation().WithPhysicalLocation(pLoc)
}

// normalizeURI converts a file path to a SARIF-compliant URI.
func (m *sarifMapper) normalizeURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	if m.cwd != "" {
		if rel, err := filepath.Rel(m.cwd, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}

	return "file://" + filepath.ToSlash(abs)
}

// registerArtifact records a file once and returns its URI.
func (m *sarifMapper) registerArtifact(path, role string) string {
	uri := m.normalizeURI(path)
	if _, exists := m.artifacts[uri]; exists {
		return uri
	}

	artifact := sarif.NewArtifact().
		WithLocation(sarif.NewArtifactLocation().WithURI(uri))

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		artifact.WithLength(int(info.Size()))
	}

	props := sarif.NewPropertyBag()
	props.Add("role", role)
	artifact.WithProperties(props)

	m.artifacts[uri] = artifact
	m.order = append(m.order, uri)
	return uri
}

func (m *sarifMapper) addArtifacts(run *sarif.Run) {
	for _, source := range m.result.Sources {
		m.registerArtifact(source, "data")
	}
	for _, uri := range m.order {
		run.AddArtifact(m.artifacts[uri])
	}
}

func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()

	invocation.ExecutionSuccessful = ptrBool(m.result.Summary.ErrorSeries == 0)

	startTime := m.result.StartTime.UTC().Format("2006-01-02T15:04:05.000Z")
	endTime := m.result.EndTime.UTC().Format("2006-01-02T15:04:05.000Z")
	invocation.StartTimeUtc = &startTime
	invocation.EndTimeUtc = &endTime

	if hostname, err := os.Hostname(); err == nil {
		invocation.Machine = &hostname
	}

	if m.cwd != "" {
		cwd := "file://" + filepath.ToSlash(m.cwd)
		invocation.WorkingDirectory = sarif.NewArtifactLocation().WithURI(cwd)
	}

	props := sarif.NewPropertyBag()
	props.Add("profileName", m.result.ProfileName)
	props.Add("profileVersion", m.result.ProfileVersion)
	props.Add("runId", m.result.RunID.String())
	props.Add("recordCount", m.result.RecordCount)
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

func (m *sarifMapper) addProperties(run *sarif.Run) {
	props := sarif.NewPropertyBag()
	props.Add("summary", m.result.Summary)
	props.Add("status", string(m.result.Status))
	run.WithProperties(props)
}

func (m *sarifMapper) generateDefaultMessage(sr execution.SeriesResult) string {
	switch sr.Status {
	case values.StatusPass:
		return fmt.Sprintf("Series %s passed", sr.Code)
	case values.StatusFail:
		return fmt.Sprintf("Series %s failed", sr.Code)
	case values.StatusError:
		return fmt.Sprintf("Series %s encountered an error", sr.Code)
	case values.StatusSkipped:
		return fmt.Sprintf("Series %s was skipped", sr.Code)
	default:
		return fmt.Sprintf("Series %s completed with status %s", sr.Code, sr.Status)
	}
}
