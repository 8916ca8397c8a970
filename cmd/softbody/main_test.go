package main

import (
	"math"
	"testing"

	"github.com/san-kum/softbody/internal/collide"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"sphere:0,1,0,0.5", false},
		{"plane:0,1,0,0", false},
		{"box:0,0,0,1,1,1", false},
		{"box:0,0,0,1,1,1,45", false},
		{"sphere:0,1,0", true},
		{"plane:0,0,0,1", true},
		{"cone:1,2,3", true},
		{"sphere", true},
		{"sphere:a,b,c,d", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := parseShape(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseShape(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestQuery(t *testing.T) {
	mustShape := func(s string) shape {
		sh, err := parseShape(s)
		if err != nil {
			t.Fatal(err)
		}
		return sh
	}

	data := collide.NewData(8)
	hit, err := query(mustShape("plane:0,1,0,0"), mustShape("sphere:0,0.5,0,1"), data)
	if err != nil || !hit {
		t.Fatalf("sphere resting in ground should hit: %v %v", hit, err)
	}
	if got := data.Contacts()[0].Penetration; math.Abs(got-0.5) > 1e-9 {
		t.Errorf("penetration = %v, want 0.5", got)
	}

	data.Reset()
	hit, err = query(mustShape("box:0,0,0,1,1,1"), mustShape("box:1.5,0,0,1,1,1,30"), data)
	if err != nil || !hit {
		t.Errorf("overlapping boxes should report overlap: %v %v", hit, err)
	}
	if data.Len() != 0 {
		t.Errorf("box-box writes no contacts, got %d", data.Len())
	}

	if _, err := query(mustShape("plane:0,1,0,0"), mustShape("plane:1,0,0,0"), data); err == nil {
		t.Error("plane-plane has no detector")
	}
}

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"restitution=0.2, 0.5,0.8", "gravity=-9.8"})
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "restitution" || len(ranges[0]) != 3 || ranges[1][0] != -9.8 {
		t.Errorf("unexpected grid %v %v", names, ranges)
	}

	for _, bad := range []string{"restitution", "=1", "k=1,x"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("parseGrid(%q) should fail", bad)
		}
	}
}
