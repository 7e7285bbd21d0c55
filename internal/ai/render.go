package ai

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
)

//go:embed templates/resume.html.tmpl
var templateFS embed.FS

var resumeTemplate = template.Must(
	template.New("resume.html.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/resume.html.tmpl"),
)

const (
	MimeHTML      = "text/html; charset=utf-8"
	defaultURLTTL = 24 * time.Hour
)

// HTMLRenderer writes bullets with Writer, renders them into the resume
// template and stores the page in Store.
type HTMLRenderer struct {
	Writer BulletWriter
	Store  object.ObjectStore
	URLTTL time.Duration
	Now    func() time.Time
}

type renderEntry struct {
	Title   string
	Tags    []string
	Bullets []string
}

type renderSection struct {
	Label   string
	Entries []renderEntry
}

type renderData struct {
	JobTitle    string
	GeneratedAt time.Time
	Sections    []renderSection
}

func (r *HTMLRenderer) Render(ctx context.Context, in RenderInput) (Document, error) {
	if in.UserID == "" || in.ResumeID == "" {
		return Document{}, fmt.Errorf("render: user and resume ids are required")
	}

	var selected []Section
	for _, s := range in.Sections {
		selected = append(selected, orderPinned(s, in.Pinned))
	}
	all := flatten(selected)
	bullets, err := r.Writer.WriteBullets(ctx, in.JobText, in.Feedback, all)
	if err != nil {
		return Document{}, err
	}

	page, err := r.execute(in.JobTitle, selected, bullets)
	if err != nil {
		return Document{}, err
	}

	key := "renders/" + in.UserID + "/" + in.ResumeID + ".html"
	if _, err := r.Store.SaveWithKey(ctx, key, MimeHTML, bytes.NewReader(page)); err != nil {
		return Document{}, fmt.Errorf("render: save: %w", err)
	}
	ttl := r.URLTTL
	if ttl <= 0 {
		ttl = defaultURLTTL
	}
	url, err := r.Store.URL(ctx, key, ttl)
	if err != nil {
		return Document{}, fmt.Errorf("render: url: %w", err)
	}

	telemetry.Info("ai.render.complete", map[string]any{
		"userId":   in.UserID,
		"resumeId": in.ResumeID,
		"sections": len(selected),
		"bullets":  len(bullets),
		"bytes":    len(page),
	})
	return Document{URL: url, StorageKey: key, MimeType: MimeHTML, Bullets: bullets}, nil
}

func (r *HTMLRenderer) execute(jobTitle string, sections []Section, bullets []Bullet) ([]byte, error) {
	byBlob := make(map[string][]string)
	for _, b := range bullets {
		byBlob[b.BlobID] = append(byBlob[b.BlobID], b.Text)
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	data := renderData{JobTitle: jobTitle, GeneratedAt: now().UTC()}
	for _, s := range sections {
		rs := renderSection{Label: s.Label}
		for _, b := range s.Blobs {
			rs.Entries = append(rs.Entries, renderEntry{Title: b.Title, Tags: b.Tags, Bullets: byBlob[b.ID]})
		}
		data.Sections = append(data.Sections, rs)
	}
	var buf bytes.Buffer
	if err := resumeTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render: template: %w", err)
	}
	return buf.Bytes(), nil
}

func orderPinned(s Section, pinned map[string]bool) Section {
	if len(pinned) == 0 {
		return s
	}
	list := append(s.Blobs[:0:0], s.Blobs...)
	sort.SliceStable(list, func(i, j int) bool { return pinned[list[i].ID] && !pinned[list[j].ID] })
	s.Blobs = list
	return s
}
