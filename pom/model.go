// Package pom reads the parts of a Maven pom.xml that locate compiled
// classes: the build output directory and the reactor modules.
package pom

import (
	"encoding/xml"
	"strings"
)

type Project struct {
	XMLName    xml.Name    `xml:"project"`
	GroupID    string      `xml:"groupId"`
	ArtifactID string      `xml:"artifactId"`
	Version    string      `xml:"version"`
	Packaging  string      `xml:"packaging"`
	Parent     *Parent     `xml:"parent"`
	Modules    []string    `xml:"modules>module"`
	Properties *Properties `xml:"properties"`
	Build      *Build      `xml:"build"`

	// Dir is the directory holding the pom.xml.
	Dir string `xml:"-"`
}

type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

type Properties struct {
	Entries map[string]string
}

func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	p.Entries = make(map[string]string)
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			p.Entries[t.Name.Local] = value
		case xml.EndElement:
			if t.Name == start.Name {
				return nil
			}
		}
	}
}

type Build struct {
	Directory       string `xml:"directory"`
	OutputDirectory string `xml:"outputDirectory"`
}

// IsAggregator reports whether the project only groups modules and
// compiles nothing itself.
func (p *Project) IsAggregator() bool {
	return p.Packaging == "pom"
}

// interpolate replaces ${...} references to project coordinates, the
// build directory and declared properties.
func (p *Project) interpolate(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	props := map[string]string{
		"project.groupId":    p.GroupID,
		"project.artifactId": p.ArtifactID,
		"project.version":    p.Version,
		"project.basedir":    p.Dir,
		"basedir":            p.Dir,
	}
	if p.Build != nil && p.Build.Directory != "" {
		props["project.build.directory"] = p.Build.Directory
	}
	if p.Properties != nil {
		for k, v := range p.Properties.Entries {
			props[k] = v
		}
	}
	for k, v := range props {
		s = strings.ReplaceAll(s, "${"+k+"}", v)
	}
	return s
}
