package grid

import "testing"

func TestNew_BuildsSquareGridWithSixFaces(t *testing.T) {
	base := Color{R: 0.35, G: 0.29, B: 0.23, A: 0.15}
	g := New(15, Style{FaceColor: base})

	if g.Size() != 15 {
		t.Fatalf("Size() = %d, want 15", g.Size())
	}
	if g.Len() != 225 {
		t.Fatalf("Len() = %d, want 225", g.Len())
	}
	if g.FaceCount() != 225*6 {
		t.Errorf("FaceCount() = %d, want %d", g.FaceCount(), 225*6)
	}

	g.ForEachCell(func(row, col int, cell *Cell) {
		if cell.Row != row || cell.Col != col {
			t.Errorf("cell reports (%d,%d), visited as (%d,%d)", cell.Row, cell.Col, row, col)
		}
		if !cell.IsNeutral() {
			t.Errorf("cell (%d,%d) starts tilted", row, col)
		}
		for i, f := range cell.Faces {
			if f.Side != FaceSide(i) {
				t.Errorf("cell (%d,%d) face %d has side %v", row, col, i, f.Side)
			}
			if f.Background != base {
				t.Errorf("cell (%d,%d) face %v background = %+v, want %+v", row, col, f.Side, f.Background, base)
			}
		}
	})
}

func TestGetCell_IndexesRowMajor(t *testing.T) {
	g := New(4, Style{})
	for i, c := range g.Cells() {
		if got := g.Index(c.Row, c.Col); got != i {
			t.Errorf("Index(%d,%d) = %d, want %d", c.Row, c.Col, got, i)
		}
		if g.GetCell(c.Row, c.Col) != c {
			t.Errorf("GetCell(%d,%d) returned a different cell", c.Row, c.Col)
		}
	}
}

func TestGetCell_OutOfBounds(t *testing.T) {
	g := New(3, Style{})
	tests := []struct {
		row, col int
	}{
		{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5},
	}
	for _, tt := range tests {
		if c := g.GetCell(tt.row, tt.col); c != nil {
			t.Errorf("GetCell(%d,%d) = %+v, want nil", tt.row, tt.col, c)
		}
		if i := g.Index(tt.row, tt.col); i != -1 {
			t.Errorf("Index(%d,%d) = %d, want -1", tt.row, tt.col, i)
		}
	}
}

func TestNew_NegativeSizeIsEmpty(t *testing.T) {
	g := New(-2, Style{})
	if g.Size() != 0 || g.Len() != 0 {
		t.Errorf("New(-2) = size %d len %d, want empty", g.Size(), g.Len())
	}
}

func TestFaceSide_String(t *testing.T) {
	if FaceFront.String() != "front" {
		t.Errorf("FaceFront.String() = %q", FaceFront.String())
	}
	if FaceSide(9).String() != "unknown" {
		t.Errorf("FaceSide(9).String() = %q", FaceSide(9).String())
	}
}

func TestChannelsAndRotationPointAtFields(t *testing.T) {
	c := newCell(0, 0, Color{})
	rot := c.Rotation()
	*rot[0] = -12
	*rot[1] = 12
	if c.RotateX != -12 || c.RotateY != 12 {
		t.Errorf("rotation pointers not bound: %v %v", c.RotateX, c.RotateY)
	}

	f := c.Face(FaceTop)
	ch := f.Channels()
	*ch[3] = 0.4
	if f.Background.A != 0.4 {
		t.Errorf("alpha pointer not bound: %v", f.Background.A)
	}
	if c.Face(FaceSide(-1)) != nil {
		t.Error("Face(-1) should be nil")
	}
}
