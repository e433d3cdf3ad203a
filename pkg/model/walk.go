package model

// Visitor receives each element reached by [Class.Walk]. Exactly one of the
// Visit methods is called per element.
type Visitor interface {
	VisitClass(c *Class) error
	VisitField(f *Field) error
	VisitMethod(m *Method) error
	VisitParameter(p *Parameter) error
	VisitSignature(s *Signature) error
}

// Walk visits c and every element it declares in source order:
// the class, then each field followed by its type signature, then each
// method followed by its parameters (each followed by its type signature)
// and finally its result signature. The first error stops the walk.
//
// Only declaration-site signatures are visited; type arguments are reached
// through their parent signature.
func (c *Class) Walk(v Visitor) error {
	err := v.VisitClass(c)
	if err != nil {
		return err
	}

	for _, f := range c.Fields {
		err = walkField(v, f)
		if err != nil {
			return err
		}
	}

	for _, m := range c.Methods {
		err = walkMethod(v, m)
		if err != nil {
			return err
		}
	}

	return nil
}

func walkField(v Visitor, f *Field) error {
	err := v.VisitField(f)
	if err != nil {
		return err
	}

	if f.Type == nil {
		return nil
	}

	return v.VisitSignature(f.Type)
}

func walkMethod(v Visitor, m *Method) error {
	err := v.VisitMethod(m)
	if err != nil {
		return err
	}

	for _, p := range m.Params {
		err = v.VisitParameter(p)
		if err != nil {
			return err
		}

		if p.Type != nil {
			err = v.VisitSignature(p.Type)
			if err != nil {
				return err
			}
		}
	}

	if m.Result == nil {
		return nil
	}

	return v.VisitSignature(m.Result)
}
