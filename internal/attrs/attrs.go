// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package attrs

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/rivo/uniseg"

	"github.com/staranto/beltgo/internal/format"
	"github.com/staranto/beltgo/internal/is"
)

// Attr represents each of the record keys to be included in the output.
type Attr struct {
	// The path to extract from each record. Dotted paths and [n] indexes
	// drill into nested values.
	Key string `yaml:"key"`
	// Should this Attr be included in output or is it just
	// intended for filtering and sorting?
	Include bool `yaml:"include"`
	// The key to use in the output. This is also the column title when
	// output=text.
	OutputKey string `yaml:"outputKey"`
	// Transformation spec to apply to the output value.
	TransformSpec string `yaml:"transformSpec"`
}

var lengthSpec = regexp.MustCompile(`-?\d+`)

// Transform applies the attr's transform spec to value. Spec letters:
//
//	t/T  reformat a date in BELT_TZ (or TZ)
//	l/L  lower case      u/U  upper case
//	m/M  render a number as money with two decimals
//	n    keep the first n characters, followed by "..."
//	-n   keep n characters around a ".." in the middle
func (a *Attr) Transform(value interface{}) interface{} {
	if n, ok := is.ToFloat64(value); ok {
		if strings.ContainsAny(a.TransformSpec, "mM") {
			return format.FormatMoney(n, 2)
		}
		return value
	}

	result, ok := value.(string)
	if !ok {
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		result = a.localTime(result)
	}

	// We need to know which case transformation appears last.  This covers the
	// case where there has been a global case transformation prepended to the
	// attrs transformation and, thus, allows the attr's to carry more weight.
	// IOW...  --attrs '*::U,name::l' will be lower case.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")

	if lastL > lastU {
		result = strings.ToLower(result)
	} else if lastU > lastL {
		result = strings.ToUpper(result)
	}

	// Same logic as above re: case.  The last length wins so a more specific
	// length overrides a global one.
	if match := lengthSpec.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		if l < 0 {
			result = elide(result, -l)
		} else {
			result = format.SubText(result, l)
		}
	}

	return result
}

// localTime converts a parseable date to the configured zone. Without a zone
// the value is returned as is.
func (a *Attr) localTime(s string) string {
	tz := os.Getenv("BELT_TZ")
	if tz == "" {
		tz = os.Getenv("TZ")
	}
	if tz == "" {
		return s
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Errorf("unknown timezone: %s", tz)
		return s
	}
	t, err := format.ParseDate(s)
	if err != nil {
		log.Error("failed to parse time: " + s)
		a.TransformSpec = strings.NewReplacer("t", "", "T", "").Replace(a.TransformSpec)
		return s
	}
	return t.In(loc).Format("2006-01-02T15:04:05MST")
}

// elide keeps the ends of s around "..", measured in grapheme clusters.
func elide(s string, width int) string {
	var clusters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	if len(clusters) <= width {
		return s
	}

	side := max(width/2-1, 0)
	return strings.Join(clusters[:side], "") + ".." + strings.Join(clusters[len(clusters)-side:], "")
}

type AttrList []Attr

// Return a string representation of the AttrList.  This should match the format
// of the original --attrs flag.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Parse each spec from the --attrs flag and add it to the AttrList.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		jsonIdx = iota
		outputIdx
		transformIdx
	)

	// There are three : delimited fields in each spec.  The first is the path
	// to extract from the record.  The second is the key to use in the output.
	// The third is the transformation spec to apply to the output value. The
	// latter two are optional.  The output key will default to the last
	// section of the path.
	specs := strings.Split(value, ",")
specloop:
	for _, spec := range specs {
		attr := Attr{
			Include: true,
		}

		fields := strings.Split(spec, ":")

		// If the path begins with a !, it is excluded from the output.
		attr.Key = strings.TrimSpace(fields[jsonIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		// A leading . is accepted for readability and means the record root.
		attr.Key = strings.TrimPrefix(attr.Key, ".")
		if attr.Key == "" {
			return fmt.Errorf("empty attribute in %q", spec)
		}

		if attr.Key == "*" {
			attr.Include = false
		}

		if len(fields) == 1 {
			segments := strings.Split(attr.Key, ".")
			attr.OutputKey = segments[len(segments)-1]
		} else {
			if fields[outputIdx] != "" {
				attr.OutputKey = strings.TrimSpace(fields[outputIdx])
			} else {
				attr.OutputKey = attr.Key
			}
		}

		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}

		// If the attr already exists in the list (because it's one of the defaults
		// for cmd or the user double-entered it) just apply the OutputKey, Include
		// and TransformSpec to the existing Attr.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// SetGlobalTransformSpec inserts a global transform spec into the front of all
// attrs in the list.
func (alist *AttrList) SetGlobalTransformSpec() error {
	spec := ""

	// Find the global transform spec.  If there is more than one, we're not
	// dealing with it and just taking the first.
	for a := range *alist {
		if (*alist)[a].Key == "*" {
			spec = (*alist)[a].TransformSpec
			break
		}
	}

	if spec == "" {
		return nil
	}

	for a := range *alist {
		(*alist)[a].TransformSpec = spec + "," + (*alist)[a].TransformSpec
	}

	return nil
}

func (a *AttrList) Type() string {
	return "list"
}

// Included returns the attrs destined for output.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// FromKeys builds an attr per key, used when no --attrs were given and every
// top-level key of the records is shown.
func FromKeys(keys []string) AttrList {
	out := make(AttrList, 0, len(keys))
	for _, k := range keys {
		out = append(out, Attr{Key: k, OutputKey: k, Include: true})
	}
	return out
}
