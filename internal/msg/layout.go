package msg

// Layout rules. Arrays are length-delimited by the transport frame, so their
// element count never appears on the wire: the maximum size assumes a full
// array, the minimum assumes an empty one, and nested structs recurse.

func (s ScalarSpec) MaxSize() int      { return s.Primitive.Width() }
func (s ScalarSpec) MinSize() int      { return s.Primitive.Width() }
func (s ScalarSpec) HasVariable() bool { return false }

func (a ArraySpec) MaxSize() int      { return a.MaxLength * a.Primitive.Width() }
func (a ArraySpec) MinSize() int      { return 0 }
func (a ArraySpec) HasVariable() bool { return true }

func (s StructSpec) MaxSize() int {
	total := 0
	for _, f := range s.Fields {
		total += f.maxSize()
	}
	return total
}

func (s StructSpec) MinSize() int {
	total := 0
	for _, f := range s.Fields {
		total += f.minSize()
	}
	return total
}

func (s StructSpec) HasVariable() bool {
	for _, f := range s.Fields {
		switch t := f.Type.(type) {
		case ArrayField:
			return true
		case NestedField:
			if t.Spec.HasVariable() {
				return true
			}
		}
	}
	return false
}

func (f Field) maxSize() int {
	switch t := f.Type.(type) {
	case PrimitiveField:
		return t.Primitive.Width()
	case ArrayField:
		return t.MaxLength * t.Primitive.Width()
	case NestedField:
		return t.Spec.MaxSize()
	}
	return 0
}

func (f Field) minSize() int {
	switch t := f.Type.(type) {
	case PrimitiveField:
		return t.Primitive.Width()
	case ArrayField:
		return 0
	case NestedField:
		return t.Spec.MinSize()
	}
	return 0
}

// arrayFieldCount counts reachable array fields. The frame-length heuristic
// used by generated decoders can recover at most one variable field, so the
// validator rejects structs where this exceeds 1.
func (s StructSpec) arrayFieldCount() int {
	n := 0
	for _, f := range s.Fields {
		switch t := f.Type.(type) {
		case ArrayField:
			n++
		case NestedField:
			n += t.Spec.arrayFieldCount()
		}
	}
	return n
}
