package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"resume-builder/internal/shared/apperr"
	"resume-builder/internal/shared/storage/object/local"
)

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, "Senior Go Engineer", "Build payment APIs")
	text, err := FromBytes(context.Background(), data, "application/zip", "posting.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if text != "Senior Go Engineer\nBuild payment APIs" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = FromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFromBytes_PlainTextAndBlank(t *testing.T) {
	text, err := FromBytes(context.Background(), []byte("  Data Analyst\n"), "text/plain; charset=utf-8", "jd.txt")
	if err != nil || text != "Data Analyst" {
		t.Fatalf("unexpected result %q %v", text, err)
	}
	if _, err := FromBytes(context.Background(), []byte("   \n"), "text/plain", "jd.txt"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
}

func TestFromBytes_BrokenPDFIsValidation(t *testing.T) {
	_, err := FromBytes(context.Background(), []byte("%PDF-1.4 garbage"), "application/pdf", "jd.pdf")
	if err == nil || !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTextPersistsExtractedCopy(t *testing.T) {
	store := local.New(t.TempDir(), "")
	ctx := context.Background()
	key, _, _, err := store.Save(ctx, "u1", "posting.docx", bytes.NewReader(buildDocx(t, "Platform Engineer")))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	text, err := Text(ctx, store, key, MimeDOCX, "posting.docx")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Platform Engineer" {
		t.Fatalf("unexpected text %q", text)
	}
	rc, err := store.Open(ctx, key+".extracted.txt")
	if err != nil {
		t.Fatalf("expected extracted copy: %v", err)
	}
	defer rc.Close()
}
