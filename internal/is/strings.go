// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package is

import "regexp"

var (
	chineseRe = regexp.MustCompile(`^[\x{4e00}-\x{9fa5}]+$`)
	emailRe   = regexp.MustCompile(`^([a-zA-Z0-9_-])+@([a-zA-Z0-9_-])+(\.[a-zA-Z0-9_-]+)+$`)
	urlRe     = regexp.MustCompile(`^(https|http|ftp|rtsp|mms)://\S+`)
	phoneRe   = regexp.MustCompile(`^1[3-9]\d{9}$`)
	idCardRe  = regexp.MustCompile(`(^\d{15}$)|(^\d{18}$)|(^\d{17}(\d|X|x)$)`)
	ipRe      = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)\.(\d+)$`)
	base64Re  = regexp.MustCompile(`data:image/\w+;base64,`)
)

// IsChinese is true when s is made up entirely of CJK unified ideographs.
func IsChinese(s string) bool { return chineseRe.MatchString(s) }

func IsEmail(s string) bool { return emailRe.MatchString(s) }

// IsURL requires an explicit scheme.
func IsURL(s string) bool { return urlRe.MatchString(s) }

// IsPhone matches mainland China mobile numbers.
func IsPhone(s string) bool { return phoneRe.MatchString(s) }

// IsIDCard matches the 15 and 18 character resident identity card formats.
func IsIDCard(s string) bool { return idCardRe.MatchString(s) }

// IsIP only checks the dotted-quad shape, not octet ranges.
func IsIP(s string) bool { return ipRe.MatchString(s) }

// IsBase64Image looks for an image data URI prefix anywhere in s.
func IsBase64Image(s string) bool { return base64Re.MatchString(s) }

// Predicates maps the names accepted by `belt is` to their string checks.
var Predicates = map[string]func(string) bool{
	"chinese": IsChinese,
	"email":   IsEmail,
	"url":     IsURL,
	"phone":   IsPhone,
	"idcard":  IsIDCard,
	"ip":      IsIP,
	"base64":  IsBase64Image,
}
