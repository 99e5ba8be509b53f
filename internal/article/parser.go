package article

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func ParseFile(filePath string) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return ParseContent(string(content), filePath)
}

func ParseContent(content, filePath string) (*Document, error) {
	frontmatter, body, err := splitFrontmatter(content)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter format in %s: %w", filePath, err)
	}

	var doc Document
	if err := yaml.Unmarshal([]byte(frontmatter), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML frontmatter in %s: %w", filePath, err)
	}

	doc.Body = strings.TrimSpace(body)
	doc.FilePath = filePath

	return &doc, nil
}

// splitFrontmatter separates the block between the leading "---" lines from
// the rest of the file. The body is returned untouched.
func splitFrontmatter(content string) (string, string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")

	if len(lines) == 0 || lines[0] != "---" {
		return "", "", fmt.Errorf("missing opening ---")
	}

	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			frontmatter := strings.Join(lines[1:i], "\n")
			var body string
			if i+1 < len(lines) {
				body = strings.Join(lines[i+1:], "\n")
			}
			return frontmatter, body, nil
		}
	}

	return "", "", fmt.Errorf("missing closing ---")
}

func isMarkdown(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

func LoadDocumentsFromDir(dir string) ([]*Document, error) {
	var docs []*Document

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !isMarkdown(path) {
			return nil
		}

		doc, err := ParseFile(path)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		docs = append(docs, doc)

		return nil
	})

	if err != nil {
		return nil, err
	}

	return docs, nil
}

// LoadDocumentsFS reads every markdown document in fsys in lexical order.
func LoadDocumentsFS(fsys fs.FS) ([]*Document, error) {
	var docs []*Document

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !isMarkdown(path) {
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}

		doc, err := ParseContent(string(content), path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)

		return nil
	})

	if err != nil {
		return nil, err
	}

	return docs, nil
}

// SetDocumentID records id in the frontmatter of the document's file, keeping
// any other keys and the body as they are.
func SetDocumentID(doc *Document, id int64) error {
	content, err := os.ReadFile(doc.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", doc.FilePath, err)
	}

	frontmatter, body, err := splitFrontmatter(string(content))
	if err != nil {
		return fmt.Errorf("invalid frontmatter format in %s: %w", doc.FilePath, err)
	}

	var frontMatterMap map[string]interface{}
	if err := yaml.Unmarshal([]byte(frontmatter), &frontMatterMap); err != nil {
		return fmt.Errorf("failed to parse YAML frontmatter: %w", err)
	}
	if frontMatterMap == nil {
		frontMatterMap = make(map[string]interface{})
	}

	frontMatterMap["id"] = id

	updatedFrontmatter, err := yaml.Marshal(frontMatterMap)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	newContent := fmt.Sprintf("---\n%s---\n%s", string(updatedFrontmatter), body)

	if err := os.WriteFile(doc.FilePath, []byte(newContent), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", doc.FilePath, err)
	}

	doc.ID = id
	return nil
}
