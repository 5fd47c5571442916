package core

import (
	"fmt"
	"sort"
	"sync"
)

// FormatInfo contains display information about a list grammar.
type FormatInfo struct {
	Key      string // Unique identifier: "moxfield_csv"
	Label    string // Display name: "Moxfield CSV"
	Priority int    // Detection order, lowest first
	Fallback bool   // Selected when no detector claims the content
}

// DetectFunc reports whether a grammar claims the content.
// Detectors look only at the header or first content line.
type DetectFunc func(content []byte) bool

// WarnFunc receives a skipped line or row. line is 1-based.
type WarnFunc func(line int, reason, data string)

// ParseFunc turns file content into card requests, reporting bad rows via warn.
type ParseFunc func(content []byte, warn WarnFunc) []CardRequest

// FormatDefinition contains everything needed to detect and parse one grammar.
type FormatDefinition struct {
	Info   FormatInfo
	Detect DetectFunc
	Parse  ParseFunc
}

var (
	registry   = make(map[string]FormatDefinition)
	registryMu sync.RWMutex
)

// Register adds a format definition to the registry.
// Panics if a format with the same key is already registered.
func Register(def FormatDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("format already registered: %s", def.Info.Key))
	}
	if def.Detect == nil || def.Parse == nil {
		panic(fmt.Sprintf("format %s must define Detect and Parse", def.Info.Key))
	}

	registry[def.Info.Key] = def
}

// Get returns a format definition by key.
// Returns false if not found.
func Get(key string) (FormatDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered formats in detection order.
// Sorted by priority then by key for consistent ordering.
func All() []FormatDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]FormatDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Priority != result[j].Info.Priority {
			return result[i].Info.Priority < result[j].Info.Priority
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// FormatCount returns the number of registered formats.
func FormatCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered formats.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]FormatDefinition)
}

// emptyFormat is returned by Select when nothing is registered at all.
var emptyFormat = FormatDefinition{
	Info:   FormatInfo{Key: "empty", Label: "Empty", Fallback: true},
	Detect: func([]byte) bool { return true },
	Parse:  func([]byte, WarnFunc) []CardRequest { return nil },
}

// Select returns the first format whose detector claims the content, in
// detection order. When none does it returns the fallback format. Select
// never fails: a detector that panics is treated as declining.
func Select(content []byte) FormatDefinition {
	formats := All()
	for _, def := range formats {
		if safeDetect(def.Detect, content) {
			return def
		}
	}
	for _, def := range formats {
		if def.Info.Fallback {
			return def
		}
	}
	return emptyFormat
}

func safeDetect(detect DetectFunc, content []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return detect(content)
}

// Parse selects a format for content and parses it. Warnings are tagged
// with fileName.
func Parse(fileName string, content []byte) ParseResult {
	def := Select(content)
	result := ParseResult{Format: def.Info, FileName: fileName}

	warn := func(line int, reason, data string) {
		result.Warnings = append(result.Warnings, Warning{
			FileName:   fileName,
			LineNumber: line,
			Reason:     reason,
			Data:       data,
		})
	}
	result.Requests = safeParse(def.Parse, content, warn)

	return result
}

func safeParse(parse ParseFunc, content []byte, warn WarnFunc) (reqs []CardRequest) {
	defer func() {
		if r := recover(); r != nil {
			warn(0, fmt.Sprintf("parser aborted: %v", r), "")
		}
	}()
	return parse(content, warn)
}
