// Package reach is a hand-interaction runtime for VR-style games: tracked
// hands detect, hover, select, hold and manipulate objects in a 3D scene.
//
// # Quick start
//
// A [World] owns the node tree and runs two cadences from a single
// [World.Update] call per frame: fixed physics steps (hand followers, body
// integration, trigger overlaps) and the frame tick (interactors,
// manipulators, tweens).
//
//	world := reach.NewWorld(reach.DefaultConfig())
//
//	hand := reach.NewNode("hand")
//	world.Root().AddChild(hand)
//	ctrl := reach.NewController()
//	mask := reach.MaskOf(world.Config().Layers.Interactable)
//	world.Add(reach.NewTriggerInteractor(reach.HandRight, ctrl, hand, reach.Sphere{Radius: 0.08}, mask))
//
//	cube := reach.NewNode("cube")
//	cube.Layer = world.Config().Layers.Interactable
//	world.Root().AddChild(cube)
//	world.Add(reach.NewGrabable(cube, reach.NewBody(cube), reach.NewCollider(cube, reach.Sphere{Radius: 0.1})))
//
//	// each frame
//	ctrl.SetPose(trackedPose)
//	world.Update(dt)
//
// Pressing grip on ctrl while the hand touches the cube selects it; the cube
// follows the hand until grip is released.
//
// # Interaction model
//
// Every [Interactable] is a small state machine (none, hovering, selected)
// driven by an [Interactor]. Acquisition strategies ([TriggerInteractor],
// [RaycastInteractor]) pick the hover target; the interactor subscribes to
// the selection button of that target and, once selected, to its
// activation button (the other one, see [ResolveButton]).
//
// Concrete kinds embed *Interactable and supply a [Behavior]:
// [Grabable] (held through a [GrabStrategy]), [Spawner] (hands out new
// grabables), and the [Constrained] manipulators [Lever], [Drawer], [Wheel]
// and [Turret], which move their object under their own rules while a
// synthetic hand stands in for the real one.
//
// Events are delivered synchronously through [Signal] values and forwarded
// to an optional [EventSink]; see reach/ecs for a [Donburi] bridge.
//
// # Physics hand
//
// [HandFollower] steers a dynamic [Body] towards a [PoseSource] every fixed
// step with smoothing, a deadzone, velocity clamping and teleport on
// divergence.
//
// [Donburi]: https://github.com/yohamta/donburi
package reach
