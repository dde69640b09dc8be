package fsutil

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
)

// IsYAMLFile checks if the file has a YAML extension.
func IsYAMLFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".yaml" || ext == ".yml"
}

// SplitYAMLDocuments splits a multi-document YAML file into individual
// documents, dropping empty ones.
func SplitYAMLDocuments(data []byte) ([][]byte, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))

	var docs [][]byte

	for {
		doc, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}

		if err != nil {
			return nil, fmt.Errorf("split yaml documents: %w", err)
		}

		trimmed := bytes.TrimSpace(doc)
		if len(trimmed) > 0 {
			docs = append(docs, trimmed)
		}
	}
}
