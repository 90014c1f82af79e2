// Package templates provides embedded templates for profile scaffolding.
package templates

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/reglet-dev/batchqc/internal/application/dto"
	"github.com/reglet-dev/batchqc/internal/domain/entities"
)

//go:embed profile/*.tmpl
var profileTemplates embed.FS

// ProfileTemplateName is the template rendered by RenderProfile.
const ProfileTemplateName = "qc-profile.yaml.tmpl"

// ProfileData contains the data used to render a starter profile.
type ProfileData struct {
	// Profile is the drafted, uncompiled profile
	Profile *entities.QCProfile
	// Observations are the per-series statistics, aligned with Profile.Series.Items
	Observations []dto.SeriesObservation
	// Sources are the data files the profile was drafted from
	Sources []string
	// ToolVersion is the batchqc version that generated the file
	ToolVersion string
}

var funcs = template.FuncMap{
	"join":  strings.Join,
	"quote": strconv.Quote,
	"num": func(f float64) string {
		return strconv.FormatFloat(f, 'g', 6, 64)
	},
	"percent": func(f float64) string {
		return strconv.FormatFloat(f*100, 'g', 3, 64) + "%"
	},
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
}

// ProfileTemplates returns the parsed profile templates.
func ProfileTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(profileTemplates, "profile/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return tmpl, nil
}

// RenderProfile writes a commented starter profile.
func RenderProfile(w io.Writer, data ProfileData) error {
	if data.Profile == nil || data.Profile.Series.Defaults == nil {
		return fmt.Errorf("profile with series defaults is required")
	}
	if len(data.Observations) != len(data.Profile.Series.Items) {
		return fmt.Errorf("observations (%d) do not match series items (%d)",
			len(data.Observations), len(data.Profile.Series.Items))
	}

	tmpl, err := ProfileTemplates()
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(w, ProfileTemplateName, data); err != nil {
		return fmt.Errorf("rendering %s: %w", ProfileTemplateName, err)
	}
	return nil
}
