package container

import "encoding/xml"

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata).
type corePropertiesXML struct {
	XMLName     xml.Name `xml:"coreProperties"`
	Title       string   `xml:"title"`
	Subject     string   `xml:"subject"`
	Creator     string   `xml:"creator"`
	Description string   `xml:"description"`
	LastModBy   string   `xml:"lastModifiedBy"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
	Company     string   `xml:"Company"`
}

// Properties holds document-level metadata from the docProps parts.
type Properties struct {
	Title       string
	Author      string
	Subject     string
	Description string
	Application string
	Company     string
}

// Properties reads the core and app property parts. Both parts are
// optional; absent or unreadable parts leave their fields empty.
func (p *Package) Properties() Properties {
	var props Properties

	var core corePropertiesXML
	if err := p.XML("docProps/core.xml", &core); err == nil {
		props.Title = core.Title
		props.Author = core.Creator
		props.Subject = core.Subject
		props.Description = core.Description
	}

	var app appPropertiesXML
	if err := p.XML("docProps/app.xml", &app); err == nil {
		props.Application = app.Application
		props.Company = app.Company
	}
	return props
}
