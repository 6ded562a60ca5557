package mathutil

import "testing"

func TestNewMat(t *testing.T) {
	m := NewMat(3, 4)
	if len(m) != 3 {
		t.Fatalf("rows = %d, want 3", len(m))
	}
	for i := range m {
		if len(m[i]) != 4 {
			t.Fatalf("row %d has %d cols, want 4", i, len(m[i]))
		}
		for j := range m[i] {
			if m[i][j] != 0 {
				t.Errorf("m[%d][%d] = %f, want 0", i, j, m[i][j])
			}
		}
	}
}

func TestNewMatFill(t *testing.T) {
	m := NewMatFill(2, 2, 7.5)
	for i := range m {
		for j := range m[i] {
			if m[i][j] != 7.5 {
				t.Errorf("m[%d][%d] = %f, want 7.5", i, j, m[i][j])
			}
		}
	}
}

func TestFillMat(t *testing.T) {
	m := NewMatFill(2, 3, 1)
	FillMat(m, 0)
	for i := range m {
		for j := range m[i] {
			if m[i][j] != 0 {
				t.Errorf("m[%d][%d] = %f, want 0", i, j, m[i][j])
			}
		}
	}
}

func TestVecHelpers(t *testing.T) {
	v := NewVecFill(3, 2.5)
	for i := range v {
		if v[i] != 2.5 {
			t.Errorf("v[%d] = %f, want 2.5", i, v[i])
		}
	}
	FillVec(v, 0)
	for i := range v {
		if v[i] != 0 {
			t.Errorf("v[%d] = %f, want 0", i, v[i])
		}
	}
	if len(NewVec(5)) != 5 {
		t.Errorf("NewVec(5) has length %d", len(NewVec(5)))
	}
}
