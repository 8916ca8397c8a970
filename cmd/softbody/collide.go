package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"

	"github.com/san-kum/softbody/internal/collide"
)

// shape is one parsed primitive. Exactly one of the pointers is set.
type shape struct {
	sphere *collide.Sphere
	plane  *collide.Plane
	box    *collide.Box
}

func collideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collide [shape] [shape]",
		Short: "run one narrow-phase query between two primitives",
		Long: `Shapes:
  sphere:x,y,z,r
  plane:nx,ny,nz,offset
  box:x,y,z,hx,hy,hz[,yaw]   (yaw in degrees about y)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseShape(args[0])
			if err != nil {
				return err
			}
			b, err := parseShape(args[1])
			if err != nil {
				return err
			}

			data := collide.NewData(8)
			overlap, err := query(a, b, data)
			if err != nil {
				return err
			}

			fmt.Printf("overlap: %v\n", overlap)
			if data.Len() == 0 {
				return nil
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "POINT\tNORMAL\tPENETRATION")
			for _, c := range data.Contacts() {
				fmt.Fprintf(w, "%s\t%s\t%.4f\n", fmtVec(c.Point), fmtVec(c.Normal), c.Penetration)
			}
			return w.Flush()
		},
	}
}

func parseShape(s string) (shape, error) {
	kind, list, ok := strings.Cut(s, ":")
	if !ok {
		return shape{}, fmt.Errorf("bad shape %q, want kind:values", s)
	}
	var v []float64
	for _, f := range strings.Split(list, ",") {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return shape{}, fmt.Errorf("shape %q: %w", s, err)
		}
		v = append(v, x)
	}

	switch kind {
	case "sphere":
		if len(v) != 4 {
			return shape{}, fmt.Errorf("sphere needs 4 values, got %d", len(v))
		}
		return shape{sphere: &collide.Sphere{Center: mgl64.Vec3{v[0], v[1], v[2]}, Radius: v[3]}}, nil
	case "plane":
		if len(v) != 4 {
			return shape{}, fmt.Errorf("plane needs 4 values, got %d", len(v))
		}
		n := mgl64.Vec3{v[0], v[1], v[2]}
		if n.Len() == 0 {
			return shape{}, fmt.Errorf("plane normal must be non-zero")
		}
		return shape{plane: &collide.Plane{Normal: n.Normalize(), Offset: v[3]}}, nil
	case "box":
		if len(v) != 6 && len(v) != 7 {
			return shape{}, fmt.Errorf("box needs 6 or 7 values, got %d", len(v))
		}
		rot := mgl64.QuatIdent()
		if len(v) == 7 {
			rot = mgl64.QuatRotate(mgl64.DegToRad(v[6]), mgl64.Vec3{0, 1, 0})
		}
		box := collide.NewBox(nil, mgl64.Vec3{v[0], v[1], v[2]}, mgl64.Vec3{v[3], v[4], v[5]}, rot)
		return shape{box: &box}, nil
	}
	return shape{}, fmt.Errorf("unknown shape kind %q", kind)
}

// query picks the detector for the pair. Box-box only reports overlap.
func query(a, b shape, data *collide.Data) (bool, error) {
	switch {
	case a.sphere != nil && b.sphere != nil:
		return collide.SphereAndSphere(*a.sphere, *b.sphere, data) > 0, nil
	case a.sphere != nil && b.plane != nil:
		return collide.SphereAndHalfSpace(*a.sphere, *b.plane, data) > 0, nil
	case a.plane != nil && b.sphere != nil:
		return query(b, a, data)
	case a.box != nil && b.plane != nil:
		return collide.BoxAndHalfSpace(*a.box, *b.plane, data) > 0, nil
	case a.plane != nil && b.box != nil:
		return query(b, a, data)
	case a.box != nil && b.sphere != nil:
		return collide.BoxAndSphere(*a.box, *b.sphere, data) > 0, nil
	case a.sphere != nil && b.box != nil:
		return query(b, a, data)
	case a.box != nil && b.box != nil:
		return collide.BoxAndBox(*a.box, *b.box), nil
	}
	return false, fmt.Errorf("no detector for this pair")
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
