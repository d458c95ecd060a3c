package model

import (
	"strconv"
	"strings"
	"unicode"
)

// Segment is the top-level grouping of projects selectable in the dashboard.
type Segment string

// Project is a tracked construction initiative inside a segment.
type Project struct {
	Name    string  `json:"name" yaml:"name"`
	Segment Segment `json:"segment" yaml:"segment"`
	Year    string  `json:"year,omitempty" yaml:"year,omitempty"`
}

// YearLabel returns the year badge text, "ANO ?" when unknown.
func (p Project) YearLabel() string {
	if strings.TrimSpace(p.Year) == "" {
		return "ANO ?"
	}
	return p.Year
}

// ContractItem is a row of the contractual (PER) items listing.
type ContractItem struct {
	Item string `json:"item" yaml:"item"`
	Year string `json:"year,omitempty" yaml:"year,omitempty"`
}

// YearLabel returns the year column text, "-" when unknown.
func (c ContractItem) YearLabel() string {
	if strings.TrimSpace(c.Year) == "" {
		return "-"
	}
	return c.Year
}

// SegmentLess orders segments naturally and case-insensitively, so that
// "SH 2" sorts before "SH 10".
func SegmentLess(a, b Segment) bool {
	return naturalCompare(strings.ToLower(string(a)), strings.ToLower(string(b))) < 0
}

// naturalCompare compares strings treating runs of digits as numbers.
func naturalCompare(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		if unicode.IsDigit(ra[i]) && unicode.IsDigit(rb[j]) {
			si := i
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			sj := j
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na, _ := strconv.Atoi(string(ra[si:i]))
			nb, _ := strconv.Atoi(string(rb[sj:j]))
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if ra[i] != rb[j] {
			if ra[i] < rb[j] {
				return -1
			}
			return 1
		}
		i++
		j++
	}
	switch {
	case len(ra)-i < len(rb)-j:
		return -1
	case len(ra)-i > len(rb)-j:
		return 1
	}
	return 0
}
