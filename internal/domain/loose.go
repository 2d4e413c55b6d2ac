package domain

import "github.com/goccy/go-json"

// looseString decodes any JSON scalar into text. Numbers and booleans are
// converted the way Value.String does; null, objects and arrays read as "".
type looseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *looseString) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}

	if len(v) > 0 && (v[0] == '{' || v[0] == '[') {
		*s = ""
		return nil
	}

	*s = looseString(v.String())

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *BrunoCollection) UnmarshalJSON(data []byte) error {
	type fields BrunoCollection
	var aux struct {
		fields
		Name        looseString `json:"name"`
		Description looseString `json:"description"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*c = BrunoCollection(aux.fields)
	c.Name = string(aux.Name)
	c.Description = string(aux.Description)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *BrunoConfig) UnmarshalJSON(data []byte) error {
	type fields BrunoConfig
	var aux struct {
		fields
		Name    looseString `json:"name"`
		Version looseString `json:"version"`
		Type    looseString `json:"type"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*c = BrunoConfig(aux.fields)
	c.Name = string(aux.Name)
	c.Version = string(aux.Version)
	c.Type = string(aux.Type)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *BrunoRoot) UnmarshalJSON(data []byte) error {
	type fields BrunoRoot
	var aux struct {
		fields
		Docs looseString `json:"docs"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = BrunoRoot(aux.fields)
	r.Docs = string(aux.Docs)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *BrunoDefaults) UnmarshalJSON(data []byte) error {
	type fields BrunoDefaults
	var aux struct {
		fields
		Tests       looseString `json:"tests"`
		Docs        looseString `json:"docs"`
		Description looseString `json:"description"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*d = BrunoDefaults(aux.fields)
	d.Tests = string(aux.Tests)
	d.Docs = string(aux.Docs)
	d.Description = string(aux.Description)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *BrunoItem) UnmarshalJSON(data []byte) error {
	type fields BrunoItem
	var aux struct {
		fields
		UID  looseString `json:"uid"`
		Type looseString `json:"type"`
		Name looseString `json:"name"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*i = BrunoItem(aux.fields)
	i.UID = string(aux.UID)
	i.Type = string(aux.Type)
	i.Name = string(aux.Name)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *BrunoRequest) UnmarshalJSON(data []byte) error {
	type fields BrunoRequest
	var aux struct {
		fields
		Method      looseString `json:"method"`
		URL         looseString `json:"url"`
		Tests       looseString `json:"tests"`
		Docs        looseString `json:"docs"`
		Description looseString `json:"description"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = BrunoRequest(aux.fields)
	r.Method = string(aux.Method)
	r.URL = string(aux.URL)
	r.Tests = string(aux.Tests)
	r.Docs = string(aux.Docs)
	r.Description = string(aux.Description)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *BrunoScript) UnmarshalJSON(data []byte) error {
	var aux struct {
		Req looseString `json:"req"`
		Res looseString `json:"res"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Req = string(aux.Req)
	s.Res = string(aux.Res)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *BrunoHeader) UnmarshalJSON(data []byte) error {
	type fields BrunoHeader
	var aux struct {
		fields
		Name        looseString `json:"name"`
		Type        looseString `json:"type"`
		Description looseString `json:"description"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*h = BrunoHeader(aux.fields)
	h.Name = string(aux.Name)
	h.Type = string(aux.Type)
	h.Description = string(aux.Description)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *BrunoParam) UnmarshalJSON(data []byte) error {
	type fields BrunoParam
	var aux struct {
		fields
		Name        looseString `json:"name"`
		Type        looseString `json:"type"`
		Description looseString `json:"description"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*p = BrunoParam(aux.fields)
	p.Name = string(aux.Name)
	p.Type = string(aux.Type)
	p.Description = string(aux.Description)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *BrunoVariable) UnmarshalJSON(data []byte) error {
	type fields BrunoVariable
	var aux struct {
		fields
		Name        looseString `json:"name"`
		Type        looseString `json:"type"`
		Description looseString `json:"description"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*v = BrunoVariable(aux.fields)
	v.Name = string(aux.Name)
	v.Type = string(aux.Type)
	v.Description = string(aux.Description)

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *BrunoFormField) UnmarshalJSON(data []byte) error {
	type fields BrunoFormField
	var aux struct {
		fields
		Name        looseString `json:"name"`
		Key         looseString `json:"key"`
		Type        looseString `json:"type"`
		Description looseString `json:"description"`
		ContentType looseString `json:"contentType"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*f = BrunoFormField(aux.fields)
	f.Name = string(aux.Name)
	f.Key = string(aux.Key)
	f.Type = string(aux.Type)
	f.Description = string(aux.Description)
	f.ContentType = string(aux.ContentType)

	return nil
}
