package scene

import (
	"fmt"
	"slices"

	apperr "github.com/matzehuels/artboard/pkg/errors"
)

// =============================================================================
// Record - Flat Wire Format
// =============================================================================

// Record is the serialization format for a single canvas object.
// A document is a []Record in paint order: every group precedes its
// children, and top-level records appear in z-order.
//
// Visible and Opacity are pointers so that a missing key decodes to the
// default (visible, fully opaque) rather than the zero value. Encode
// always sets them.
type Record struct {
	ID          string   `json:"id" bson:"id"`
	Type        Kind     `json:"type" bson:"type"`
	Name        string   `json:"name,omitempty" bson:"name,omitempty"`
	Parent      string   `json:"parent,omitempty" bson:"parent,omitempty"`
	X           float64  `json:"x" bson:"x"`
	Y           float64  `json:"y" bson:"y"`
	ScaleX      float64  `json:"scale_x" bson:"scale_x"`
	ScaleY      float64  `json:"scale_y" bson:"scale_y"`
	Angle       float64  `json:"angle,omitempty" bson:"angle,omitempty"`
	Opacity     *float64 `json:"opacity,omitempty" bson:"opacity,omitempty"`
	Fill        string   `json:"fill,omitempty" bson:"fill,omitempty"`
	Stroke      string   `json:"stroke,omitempty" bson:"stroke,omitempty"`
	StrokeWidth float64  `json:"stroke_width,omitempty" bson:"stroke_width,omitempty"`
	Visible     *bool    `json:"visible,omitempty" bson:"visible,omitempty"`
	Locked      bool     `json:"locked,omitempty" bson:"locked,omitempty"`
	Text        string   `json:"text,omitempty" bson:"text,omitempty"`
	FontSize    float64  `json:"font_size,omitempty" bson:"font_size,omitempty"`
	FontFamily  string   `json:"font_family,omitempty" bson:"font_family,omitempty"`
	Width       float64  `json:"width,omitempty" bson:"width,omitempty"`
	Height      float64  `json:"height,omitempty" bson:"height,omitempty"`
	Radius      float64  `json:"radius,omitempty" bson:"radius,omitempty"`
	EndX        float64  `json:"end_x,omitempty" bson:"end_x,omitempty"`
	EndY        float64  `json:"end_y,omitempty" bson:"end_y,omitempty"`
	Src         string   `json:"src,omitempty" bson:"src,omitempty"`
	Children    []string `json:"children,omitempty" bson:"children,omitempty"`
}

// Encode flattens st into records in paint order.
func Encode(st State) []Record {
	out := make([]Record, 0, len(st.Objects))
	var visit func(id string)
	visit = func(id string) {
		o, ok := st.Objects[id]
		if !ok {
			return
		}
		out = append(out, toRecord(o))
		if g, ok := o.Shape.(Group); ok {
			for _, cid := range g.Children {
				visit(cid)
			}
		}
	}
	for _, id := range st.Order {
		visit(id)
	}
	return out
}

func toRecord(o *Object) Record {
	r := Record{
		ID:          o.ID,
		Type:        o.Kind(),
		Name:        o.Name,
		Parent:      o.Parent,
		X:           o.X,
		Y:           o.Y,
		ScaleX:      o.ScaleX,
		ScaleY:      o.ScaleY,
		Angle:       o.Angle,
		Opacity:     Float(o.Opacity),
		Fill:        o.Fill,
		Stroke:      o.Stroke,
		StrokeWidth: o.StrokeWidth,
		Visible:     Bool(!o.Hidden),
		Locked:      o.Locked,
	}
	switch sh := o.Shape.(type) {
	case Text:
		r.Text, r.FontSize, r.FontFamily, r.Width = sh.Text, sh.FontSize, sh.FontFamily, sh.Width
	case Rect:
		r.Width, r.Height = sh.Width, sh.Height
	case Circle:
		r.Radius = sh.Radius
	case Line:
		r.EndX, r.EndY = sh.EndX, sh.EndY
	case Image:
		r.Src, r.Width, r.Height = sh.Src, sh.Width, sh.Height
	case Group:
		r.Children = slices.Clone(sh.Children)
	}
	return r
}

// Decode rebuilds a scene state from records and validates its structure:
// unique ids, known types, and a strict group tree whose parent references
// match the children lists.
func Decode(recs []Record) (State, error) {
	st := State{Objects: make(map[string]*Object, len(recs))}
	for _, r := range recs {
		if r.ID == "" {
			return State{}, apperr.New(apperr.ErrCodeInvalidInput, "record without id")
		}
		if _, dup := st.Objects[r.ID]; dup {
			return State{}, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		o, err := fromRecord(r)
		if err != nil {
			return State{}, err
		}
		st.Objects[r.ID] = o
		if o.Parent == "" {
			st.Order = append(st.Order, o.ID)
		}
	}
	if err := validateTree(st); err != nil {
		return State{}, err
	}
	return st, nil
}

func fromRecord(r Record) (*Object, error) {
	o := &Object{
		ID:          r.ID,
		Name:        r.Name,
		Parent:      r.Parent,
		X:           r.X,
		Y:           r.Y,
		ScaleX:      r.ScaleX,
		ScaleY:      r.ScaleY,
		Angle:       r.Angle,
		Opacity:     1,
		Fill:        r.Fill,
		Stroke:      r.Stroke,
		StrokeWidth: r.StrokeWidth,
		Locked:      r.Locked,
	}
	if r.Opacity != nil {
		o.Opacity = *r.Opacity
	}
	if r.Visible != nil {
		o.Hidden = !*r.Visible
	}
	switch r.Type {
	case KindText:
		o.Shape = Text{Text: r.Text, FontSize: r.FontSize, FontFamily: r.FontFamily, Width: r.Width}
	case KindRectangle:
		o.Shape = Rect{Width: r.Width, Height: r.Height}
	case KindCircle:
		o.Shape = Circle{Radius: r.Radius}
	case KindLine:
		o.Shape = Line{EndX: r.EndX, EndY: r.EndY}
	case KindImage:
		o.Shape = Image{Src: r.Src, Width: r.Width, Height: r.Height}
	case KindGroup:
		o.Shape = Group{Children: slices.Clone(r.Children)}
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "object %s has unknown type %q", r.ID, r.Type)
	}
	o.normalize()
	return o, nil
}

func validateTree(st State) error {
	owner := make(map[string]string)
	for id, o := range st.Objects {
		g, ok := o.Shape.(Group)
		if !ok {
			continue
		}
		for _, cid := range g.Children {
			c, ok := st.Objects[cid]
			if !ok {
				return fmt.Errorf("%w: child %s of %s", ErrNotFound, cid, id)
			}
			if prev, taken := owner[cid]; taken {
				return apperr.New(apperr.ErrCodeInvalidInput, "%s owned by both %s and %s", cid, prev, id)
			}
			if c.Parent != id {
				return apperr.New(apperr.ErrCodeInvalidInput, "%s is listed in %s but has parent %q", cid, id, c.Parent)
			}
			owner[cid] = id
		}
	}
	for id, o := range st.Objects {
		if o.Parent != "" && owner[id] != o.Parent {
			return apperr.New(apperr.ErrCodeInvalidInput, "%s claims parent %s which does not list it", id, o.Parent)
		}
		// Walk up; a chain longer than the object count is a cycle.
		cur, steps := id, 0
		for st.Objects[cur].Parent != "" {
			cur = st.Objects[cur].Parent
			if steps++; steps > len(st.Objects) {
				return fmt.Errorf("%w: %s", ErrCycle, id)
			}
		}
	}
	return nil
}
