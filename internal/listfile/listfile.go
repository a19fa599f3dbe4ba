// Package listfile expands line-oriented list files into concrete file
// paths and classifies common sequencing formats, so downstream code
// only ever handles concrete paths.
package listfile

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chapmanb/bcbio.run/internal/paths"
)

// Format is a coarse file-format classification.
type Format string

const (
	FormatFastq   Format = "fastq"
	FormatBAM     Format = "bam"
	FormatCRAM    Format = "cram"
	FormatVCF     Format = "vcf"
	FormatBED     Format = "bed"
	FormatGFF     Format = "gff"
	FormatList    Format = "list"
	FormatUnknown Format = "unknown"
)

var extFormats = map[string]Format{
	".fastq": FormatFastq,
	".fq":    FormatFastq,
	".bam":   FormatBAM,
	".cram":  FormatCRAM,
	".vcf":   FormatVCF,
	".bcf":   FormatVCF,
	".bed":   FormatBED,
	".gff":   FormatGFF,
	".gff3":  FormatGFF,
	".gtf":   FormatGFF,
	".list":  FormatList,
	".fofn":  FormatList,
}

// Detect classifies path by extension, looking through compression
// suffixes: "calls.vcf.gz" detects as vcf.
func Detect(path string) Format {
	ext := strings.ToLower(filepath.Ext(paths.RemoveZipExt(path)))
	if f, ok := extFormats[ext]; ok {
		return f
	}
	return FormatUnknown
}

// IsListFile reports whether path names a line-oriented list of file
// paths rather than data itself.
func IsListFile(path string) bool {
	return Detect(path) == FormatList
}

// IsGzip reports whether path starts with the gzip magic bytes.
func IsGzip(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, 2)
	if _, err := f.Read(magic); err != nil {
		return false
	}
	return bytes.Equal(magic, []byte{0x1f, 0x8b})
}

// Expand reads a list file and returns the concrete paths it names.
// Blank lines and '#' comments are skipped; relative entries resolve
// against the list file's directory.
func Expand(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("listfile: open %s: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("listfile: read %s: %w", path, err)
	}
	return out, nil
}
