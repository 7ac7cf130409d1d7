package loader

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// decodeYAML parses a YAML module document. Unknown fields are rejected.
func decodeYAML(path string, data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		return nil, yamlError(path, err)
	}

	// Second pass over the node tree for element line numbers. The typed
	// decode above already succeeded, so this cannot fail on valid input.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err == nil && len(root.Content) > 0 {
		annotateLines(&doc, root.Content[0])
	}
	return &doc, nil
}

func yamlError(path string, err error) *LoadError {
	e := &LoadError{Code: ErrCodeSyntax, Message: err.Error(), Path: path}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		e.Line, _ = strconv.Atoi(m[1])
	}
	return e
}

func annotateLines(doc *Document, root *yaml.Node) {
	for i, n := range sequence(root, "globals") {
		if i < len(doc.Globals) {
			doc.Globals[i].src.line = n.Line
		}
	}
	for i, fn := range sequence(root, "functions") {
		if i >= len(doc.Functions) {
			break
		}
		f := &doc.Functions[i]
		f.src.line = fn.Line
		for j, bn := range sequence(fn, "blocks") {
			if j >= len(f.Blocks) {
				break
			}
			b := &f.Blocks[j]
			b.src.line = bn.Line
			for k, in := range sequence(bn, "insts") {
				if k < len(b.Insts) {
					b.Insts[k].src.line = in.Line
				}
			}
		}
	}
}

// sequence returns the items of the sequence stored under key in mapping n.
func sequence(n *yaml.Node, key string) []*yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key && n.Content[i+1].Kind == yaml.SequenceNode {
			return n.Content[i+1].Content
		}
	}
	return nil
}
