package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/reglet-dev/batchqc/internal/domain/execution"
	"github.com/reglet-dev/batchqc/internal/domain/values"
)

// JUnitFormatter formats check results as JUnit XML.
type JUnitFormatter struct {
	writer io.Writer
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer) *JUnitFormatter {
	return &JUnitFormatter{
		writer: w,
	}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Format writes the check result as JUnit XML, one test case per series.
func (f *JUnitFormatter) Format(result *execution.CheckResult) error {
	suite := JUnitTestSuite{
		Name:     result.ProfileName,
		Tests:    result.Summary.TotalSeries,
		Failures: result.Summary.FailedSeries,
		Errors:   result.Summary.ErrorSeries,
		Skipped:  result.Summary.SkippedSeries,
		Time:     result.Duration.Seconds(),
	}

	for _, sr := range result.Series {
		c := JUnitTestCase{
			Name:      sr.Code,
			ClassName: sr.Name,
		}

		switch sr.Status {
		case values.StatusFail:
			c.Failure = &JUnitFailure{
				Message: sr.Message,
				Content: formatSeriesDetail(sr),
			}
		case values.StatusError:
			c.Error = &JUnitError{
				Message: sr.Message,
				Content: formatSeriesDetail(sr),
			}
		case values.StatusSkipped:
			c.Skipped = &JUnitSkipped{
				Message: sr.SkipReason,
			}
		}

		suite.TestCases = append(suite.TestCases, c)
	}

	suites := JUnitTestSuites{
		Name:       "Batch QC",
		Tests:      result.Summary.TotalSeries,
		Failures:   result.Summary.FailedSeries,
		Errors:     result.Summary.ErrorSeries,
		Time:       result.Duration.Seconds(),
		TestSuites: []JUnitTestSuite{suite},
	}

	if _, err := f.writer.Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}

	_, err := f.writer.Write([]byte("\n"))
	return err
}

func formatSeriesDetail(sr execution.SeriesResult) string {
	var b strings.Builder
	if eval := sr.Evaluation; eval != nil {
		fmt.Fprintf(&b, "Units: %d\n", eval.Units)
		fmt.Fprintf(&b, "Active: %g (target %g, margin %g)\n", eval.ActualActive, eval.TargetActive, eval.ActiveMargin)
		fmt.Fprintf(&b, "Impurities: %g (limit %g)\n", eval.ActualImpurity, eval.MaxImpurity)
	}
	for _, exp := range sr.Expectations {
		if exp.Passed {
			continue
		}
		fmt.Fprintf(&b, "Expectation: %s\n", exp.Expression)
		if exp.Message != "" {
			fmt.Fprintf(&b, "  %s\n", exp.Message)
		}
	}
	return b.String()
}
