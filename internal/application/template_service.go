package application

import (
	"sort"

	"github.com/openkraft/svcaudit/internal/domain"
)

// TemplateInfo summarizes a resolved template for display.
type TemplateInfo struct {
	Name          string                   `json:"name"`
	Description   string                   `json:"description,omitempty"`
	Source        string                   `json:"source"`
	Fallback      bool                     `json:"fallback"`
	Warning       string                   `json:"warning,omitempty"`
	RequiredItems int                      `json:"required_items"`
	OptionalItems int                      `json:"optional_items"`
	Markers       []string                 `json:"markers"`
	Profiles      []ProfileInfo            `json:"profiles"`
	Scoring       domain.ScoringConfig     `json:"scoring"`
	Template      domain.StructureTemplate `json:"template"`
}

// ProfileInfo counts the patterns attached to one required item.
type ProfileInfo struct {
	Item     string `json:"item"`
	Name     string `json:"name"`
	Patterns int    `json:"patterns"`
}

// TemplateService exposes template resolution and reloading.
type TemplateService struct {
	templates domain.TemplateSource
}

func NewTemplateService(templates domain.TemplateSource) *TemplateService {
	return &TemplateService{templates: templates}
}

// Info resolves templatePath and summarizes it. A broken template is reported
// through Fallback and Warning rather than an error unless the source is strict.
func (s *TemplateService) Info(templatePath string) (*TemplateInfo, error) {
	loaded, err := s.templates.Load(templatePath)
	if err != nil {
		return nil, err
	}
	tmpl := loaded.Template

	info := &TemplateInfo{
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Source:      loaded.Source,
		Fallback:    loaded.Fallback,
		Warning:     loaded.Warning,
		Markers:     []string{},
		Profiles:    []ProfileInfo{},
		Scoring:     tmpl.Scoring,
		Template:    tmpl,
	}
	for _, f := range tmpl.RequiredFiles {
		if f.Required {
			info.RequiredItems++
		} else {
			info.OptionalItems++
		}
	}
	for _, m := range tmpl.Markers() {
		info.Markers = append(info.Markers, m.Name)
	}
	for item, profile := range tmpl.QualityProfiles {
		info.Profiles = append(info.Profiles, ProfileInfo{
			Item:     item,
			Name:     profile.Name,
			Patterns: len(profile.Patterns),
		})
	}
	sort.Slice(info.Profiles, func(i, j int) bool { return info.Profiles[i].Item < info.Profiles[j].Item })
	return info, nil
}

// Reload drops cached templates so the next resolution reads from disk.
func (s *TemplateService) Reload() {
	s.templates.Reload()
}
