// File: lixenwraith/hiconfig/doc.go

// Package hiconfig composes the configurable values of independently written
// components into one flat command-line and configuration-file surface.
//
// Each component declares its values in a Provider and links the providers
// of the components it uses as children, at any depth. Registration walks the
// tree and gives every value a unique flag name (the dash-joined child
// prefixes plus its own name) and a unique storage key encoding its position,
// e.g. "[car][front_tire]radius". After parsing, the flat result is rebuilt
// into a Namespace tree, so each component reads its own subtree without
// knowing where it sits.
//
// Name conflicts:
//   - A child value sharing a name with an ancestor value that declared no
//     intent is registered anyway and reported as a ConflictWarning.
//   - An ancestor value declared with PropagateYes supplies its parsed value
//     to every descendant value of the same name; those are not registered.
//   - A descendant reachable from two propagating ancestors is a
//     PropagationConflictError.
//   - WithoutValues on a child link excludes values the owner supplies at
//     runtime through Namespace.Derive.
//
// Quick Start:
//
//	tire := hiconfig.NewProviderBuilder().
//	    WithValues(hiconfig.Value{Names: []string{"radius"}, Default: 21.0}).
//	    MustBuild()
//	car := hiconfig.NewProviderBuilder().
//	    WithPropagated(hiconfig.Value{Names: []string{"unit"}, Default: "cm"}).
//	    WithChild("front-tire", tire).
//	    WithChild("rear-tire", tire).
//	    MustBuild()
//
//	ns, err := hiconfig.Quick(car, "CAR_", "car.toml")
//	if err != nil && !errors.Is(err, hiconfig.ErrConfigNotFound) {
//	    log.Fatal(err)
//	}
//	radius, _ := ns.Float64("[front_tire]radius")
//
// Default Precedence (highest to lowest):
//  1. Command-line arguments (--front-tire-radius=30)
//  2. Environment variables (CAR_FRONT_TIRE_RADIUS=30)
//  3. Configuration file (TOML, YAML, JSON or HCL)
//  4. Default values
//
// Thread Safety:
// A built Provider may be shared. A Namespace is not safe for concurrent
// mutation; use Derive or Clone to hand out independent copies.
package hiconfig
