package escalation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"ipwatch/internal/domain"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schemas validates evidence payloads by evidence type.
type Schemas struct {
	byType map[domain.EvidenceType]*jsonschema.Schema
}

func LoadSchemas() (*Schemas, error) {
	s := &Schemas{byType: map[domain.EvidenceType]*jsonschema.Schema{}}
	for _, t := range []domain.EvidenceType{domain.EvidenceScreenshot, domain.EvidenceRiskAnalysis, domain.EvidenceHTMLContent} {
		raw, err := schemaFS.ReadFile("schemas/" + string(t) + ".json")
		if err != nil {
			return nil, err
		}
		url := "ipwatch://evidence/" + string(t) + ".json"
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", t, err)
		}
		sch, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", t, err)
		}
		s.byType[t] = sch
	}
	return s, nil
}

// Validate checks payload against the schema for t. Types without a schema pass.
func (s *Schemas) Validate(t domain.EvidenceType, payload json.RawMessage) error {
	sch, ok := s.byType[t]
	if !ok {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode %s payload: %w", t, err)
	}
	return sch.Validate(doc)
}
