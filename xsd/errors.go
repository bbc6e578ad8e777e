package xsd

import "encoding/xml"

// A TypeNotFoundError reports that a Qualified Name referenced by a
// type= or ref= attribute could not be found in the loaded schema
// forest, and is not a recognized built-in type.
type TypeNotFoundError struct {
	Name xml.Name
	By   xml.Name
}

func (e *TypeNotFoundError) Error() string {
	if e.By == (xml.Name{}) {
		return "xsd: type " + e.Name.Local + " (" + e.Name.Space + ") not found"
	}
	return "xsd: type " + e.Name.Local + " (" + e.Name.Space + ") referenced by " +
		e.By.Local + " not found"
}

// A CollisionError reports that two global declarations of the same
// kind (complexType, simpleType, element or attribute) in the loaded
// schema forest share a Qualified Name.
type CollisionError struct {
	Name xml.Name
}

func (e *CollisionError) Error() string {
	return "xsd: duplicate declaration of type " + e.Name.Local + " (" + e.Name.Space + ")"
}
