package ir

// Module is one compiled unit. Path excludes the module's own name.
type Module struct {
	Path         Path
	Name         string
	Declarations []*Declaration
}

// FullPath is Path followed by Name.
func (m *Module) FullPath() Path {
	if m == nil {
		return nil
	}
	return m.Path.Append(m.Name)
}

// DeclID returns the fully qualified id of a top-level declaration.
func (m *Module) DeclID(name string) DeclarationID {
	return DeclarationID{Path: m.FullPath(), Name: name}
}

// Lookup finds a top-level declaration by name.
func (m *Module) Lookup(name string) (*Declaration, bool) {
	if m == nil {
		return nil, false
	}
	for _, d := range m.Declarations {
		if d != nil && d.Name == name {
			return d, true
		}
	}
	return nil, false
}
