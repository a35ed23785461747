// Package agg has extraction and aggregation logic for commit activity data.
package agg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rehman-1/git-asana-backend/schema"
)

// logEntry is one parsed line of the commit log.
type logEntry struct {
	hash      string
	email     string
	timestamp int64
	subject   string
}

// numstatLine matches a text numstat line; binary files ("-\t-\tpath") never match.
var numstatLine = regexp.MustCompile(`^(\d+)\s+(\d+)`)

// parseCommitLog parses "hash|email|unix|subject" lines. The subject may contain
// '|' so only the first three separators split. Lines without a separator, with
// fewer than four fields, or with a non-integer timestamp are skipped.
func parseCommitLog(out []byte) []logEntry {
	var entries []logEntry
	for line := range strings.SplitSeq(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, logEntry{
			hash:      strings.TrimSpace(parts[0]),
			email:     parts[1],
			timestamp: ts,
			subject:   parts[3],
		})
	}
	return entries
}

// parseNumstat sums the added/deleted counts of a commit and counts its text files.
func parseNumstat(out []byte) schema.CommitStats {
	var stats schema.CommitStats
	for line := range strings.SplitSeq(string(out), "\n") {
		m := numstatLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		added, errA := strconv.Atoi(m[1])
		deleted, errD := strconv.Atoi(m[2])
		if errA != nil || errD != nil {
			continue
		}
		stats.Added += added
		stats.Deleted += deleted
		stats.Files++
	}
	return stats
}

// authorID returns the local part of an author email, or the whole field when
// it holds no '@'.
func authorID(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// commitLink builds the web link of a commit, empty when no URL is configured.
func commitLink(repoURL, hash string) string {
	if repoURL == "" {
		return ""
	}
	return repoURL + "/commit/" + hash
}
