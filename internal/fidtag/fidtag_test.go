package fidtag

import "testing"

func TestTagTableExhaustionAndReuse(t *testing.T) {
	var tt TagTable
	tt.Init(3)

	var got []uint16
	for i := 0; i < 3; i++ {
		tag, err := tt.Get()
		if err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
		if tag == NoTag {
			t.Fatal("Get issued the reserved NoTag value")
		}
		got = append(got, tag)
	}
	if _, err := tt.Get(); err == nil {
		t.Fatal("expected ErrExhausted, got nil")
	}

	tt.Put(got[0])
	reused, err := tt.Get()
	if err != nil {
		t.Fatalf("Get after Put: %v", err)
	}
	if reused != got[0] {
		t.Fatalf("expected %d to be reallocated, got %d", got[0], reused)
	}
}

func TestTagTableDoubleFreePanics(t *testing.T) {
	var tt TagTable
	tt.Init(2)
	tag, _ := tt.Get()
	tt.Put(tag)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double free")
		}
	}()
	tt.Put(tag)
}

func TestTagTableInUse(t *testing.T) {
	var tt TagTable
	tt.Init(2)
	tag, _ := tt.Get()
	if !tt.InUse(tag) {
		t.Fatal("expected tag to be in use")
	}
	tt.Put(tag)
	if tt.InUse(tag) {
		t.Fatal("expected tag to no longer be in use")
	}
}

func TestFidTableExhaustionAndReuse(t *testing.T) {
	var ft FidTable
	ft.Init(2)

	a, err := ft.Get()
	if err != nil {
		t.Fatal(err)
	}
	b, err := ft.Get()
	if err != nil {
		t.Fatal(err)
	}
	if a == NoFid || b == NoFid {
		t.Fatal("Get issued the reserved NoFid value")
	}
	if _, err := ft.Get(); err == nil {
		t.Fatal("expected ErrExhausted, got nil")
	}

	ft.Put(a)
	reused, err := ft.Get()
	if err != nil {
		t.Fatal(err)
	}
	if reused != a {
		t.Fatalf("expected %d to be reallocated, got %d", a, reused)
	}
}

func TestFidTableDoubleFreePanics(t *testing.T) {
	var ft FidTable
	ft.Init(2)
	fid, _ := ft.Get()
	ft.Put(fid)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double free")
		}
	}()
	ft.Put(fid)
}
