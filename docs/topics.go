// Package docs holds the help topics of pts, as embedded markdown files.
//
// readme.md is the index: it lists every other topic as "* name: synopsis".
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"strings"
)

//go:embed *.md
var docs embed.FS

// Index is the name of the topic listing all the others.
const Index = "readme"

// Topic is an entry of the index.
type Topic struct {
	Name     string
	Synopsis string
}

var indexEntry = regexp.MustCompile(`^\*\s+([^:]+):\s*(.*)$`)

// Topics returns the topics listed in the index, in order.
func Topics() ([]Topic, error) {
	content, err := docs.ReadFile(Index + ".md")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		if m := indexEntry.FindStringSubmatch(scanner.Text()); m != nil {
			topics = append(topics, Topic{Name: strings.TrimSpace(m[1]), Synopsis: m[2]})
		}
	}
	return topics, scanner.Err()
}

// GetTopic returns the content of a documentation topic, "*" for all of them.
func GetTopic(topic string) (string, error) {
	if topic == "*" {
		all, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		return GetTopics(all...)
	}
	content, err := docs.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found, see \"pts topic\" for the list: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics returns the content of the topics, concatenated.
func GetTopics(topics ...string) (string, error) {
	var b strings.Builder
	for _, topic := range topics {
		content, err := GetTopic(topic)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		if !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

// GetAllTopics returns the names of all the topics but the index, sorted.
func GetAllTopics() ([]string, error) {
	files, err := fs.Glob(docs, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, file := range files {
		if name := strings.TrimSuffix(path.Base(file), ".md"); name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics, nil
}
