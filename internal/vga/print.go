package vga

// Print writes text at the cursor like a console: each character advances
// the cursor, output wraps at the right writable edge, '\n' starts a new
// line, '\r' returns to the left edge and '\b' erases the previous cell.
// Moving past the bottom writable row scrolls.
func (s *Screen) Print(text string, opts ...WriteOption) {
	for _, r := range text {
		switch r {
		case '\n':
			s.newline()
		case '\r':
			s.cursor.SetX(s.WritableRect().Left)
		case '\b':
			s.backspace()
		default:
			x, y := s.cursor.Position()
			_ = s.Write(x, y, r, opts...)
			s.advance()
		}
	}
}

// advance moves the cursor one cell right, wrapping at the writable edge.
func (s *Screen) advance() {
	w := s.WritableRect()
	x := s.cursor.X() + 1
	if x >= w.Right {
		s.newline()
		return
	}
	s.cursor.SetX(x)
}

// newline moves the cursor to the start of the next writable row,
// scrolling when it is already on the last one.
func (s *Screen) newline() {
	w := s.WritableRect()
	y := s.cursor.Y() + 1
	if y >= w.Bottom {
		s.Scroll()
		y = w.Bottom - 1
	}
	s.cursor.SetPosition(w.Left, y)
}

// backspace moves the cursor one cell left within the row and blanks it.
func (s *Screen) backspace() {
	w := s.WritableRect()
	x, y := s.cursor.Position()
	if x <= w.Left {
		return
	}
	s.cursor.SetX(x - 1)
	_ = s.Write(x-1, y, ' ')
}
