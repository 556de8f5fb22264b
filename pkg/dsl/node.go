package dsl

import (
	"time"

	"github.com/mverett/fabula/internal/nodes"
	"github.com/mverett/fabula/pkg/schema"
)

// Start adds the graph's entry node.
func (b *Builder) Start(id string) *StartBuilder {
	n := nodes.NewStart(id)
	b.add(n)
	return &StartBuilder{b: b, n: n}
}

type StartBuilder struct {
	b *Builder
	n *nodes.StartNode
}

// Go connects the start node to the target.
func (s *StartBuilder) Go(target string) *StartBuilder {
	s.b.connect(s.n.ID(), schema.PortOutput, target)
	return s
}

// Dialogue adds a spoken line.
func (b *Builder) Dialogue(id, speaker, text string) *DialogueBuilder {
	n := nodes.NewDialogue(id, speaker, text)
	b.add(n)
	return &DialogueBuilder{b: b, n: n}
}

type DialogueBuilder struct {
	b *Builder
	n *nodes.DialogueNode
}

// Ack holds the run on this line until the player acknowledges it.
func (d *DialogueBuilder) Ack() *DialogueBuilder {
	d.n.WaitForAck = true
	return d
}

func (d *DialogueBuilder) Go(target string) *DialogueBuilder {
	d.b.connect(d.n.ID(), schema.PortOutput, target)
	return d
}

// Choice adds a player decision point.
func (b *Builder) Choice(id, prompt string) *ChoiceBuilder {
	n := nodes.NewChoice(id, prompt)
	b.add(n)
	return &ChoiceBuilder{b: b, n: n}
}

type ChoiceBuilder struct {
	b *Builder
	n *nodes.ChoiceNode
}

// Option adds an always-available choice leading to target.
func (c *ChoiceBuilder) Option(text, target string) *ChoiceBuilder {
	return c.OptionIf(text, target, nil)
}

// OptionIf adds a choice that is only presented while cond holds.
func (c *ChoiceBuilder) OptionIf(text, target string, cond *schema.Condition) *ChoiceBuilder {
	index := len(c.n.Choices)
	c.n.AddChoice(text, cond)
	c.b.connect(c.n.ID(), nodes.ChoicePort(index), target)
	return c
}

// Timeout auto-selects the choice at defaultIndex after d elapses.
func (c *ChoiceBuilder) Timeout(d time.Duration, defaultIndex int) *ChoiceBuilder {
	c.n.WithTimeout(d, defaultIndex)
	return c
}

// Shuffle randomizes presentation order.
func (c *ChoiceBuilder) Shuffle() *ChoiceBuilder {
	c.n.WithShuffle()
	return c
}

// Seed fixes the shuffle order for reproducible runs.
func (c *ChoiceBuilder) Seed(seed int64) *ChoiceBuilder {
	c.n.SeedShuffle(seed)
	return c
}

// Branch adds a two-way conditional split.
func (b *Builder) Branch(id string, cond schema.Condition) *BranchBuilder {
	n := nodes.NewBranch(id, cond)
	b.add(n)
	return &BranchBuilder{b: b, n: n}
}

type BranchBuilder struct {
	b *Builder
	n *nodes.BranchNode
}

func (br *BranchBuilder) True(target string) *BranchBuilder {
	br.b.connect(br.n.ID(), schema.PortTrue, target)
	return br
}

func (br *BranchBuilder) False(target string) *BranchBuilder {
	br.b.connect(br.n.ID(), schema.PortFalse, target)
	return br
}

// Set adds a variable mutation node that overwrites the variable.
func (b *Builder) Set(id, variable string, value schema.Value) *SetBuilder {
	n := nodes.NewSetVariable(id, variable, value)
	b.add(n)
	return &SetBuilder{b: b, n: n}
}

type SetBuilder struct {
	b *Builder
	n *nodes.SetVariableNode
}

// Add switches the mutation to numeric accumulation.
func (s *SetBuilder) Add() *SetBuilder {
	s.n.WithOp(nodes.MutateAdd)
	return s
}

// Toggle switches the mutation to boolean inversion.
func (s *SetBuilder) Toggle() *SetBuilder {
	s.n.WithOp(nodes.MutateToggle)
	return s
}

func (s *SetBuilder) Go(target string) *SetBuilder {
	s.b.connect(s.n.ID(), schema.PortOutput, target)
	return s
}

// Wait adds a timed pause.
func (b *Builder) Wait(id string, d time.Duration) *WaitBuilder {
	n := nodes.NewWait(id, d)
	b.add(n)
	return &WaitBuilder{b: b, n: n}
}

type WaitBuilder struct {
	b *Builder
	n *nodes.WaitNode
}

func (w *WaitBuilder) Go(target string) *WaitBuilder {
	w.b.connect(w.n.ID(), schema.PortOutput, target)
	return w
}

// Gate adds a node that blocks until its condition becomes true.
func (b *Builder) Gate(id string, cond schema.Condition) *GateBuilder {
	n := nodes.NewGate(id, cond)
	b.add(n)
	return &GateBuilder{b: b, n: n}
}

type GateBuilder struct {
	b *Builder
	n *nodes.GateNode
}

func (g *GateBuilder) Go(target string) *GateBuilder {
	g.b.connect(g.n.ID(), schema.PortOutput, target)
	return g
}

// Cutscene adds a scene playback node. A zero duration waits for the
// player to skip or finish it.
func (b *Builder) Cutscene(id, sceneID string, duration time.Duration) *CutsceneBuilder {
	n := nodes.NewCutscene(id, sceneID, duration)
	b.add(n)
	return &CutsceneBuilder{b: b, n: n}
}

type CutsceneBuilder struct {
	b *Builder
	n *nodes.CutsceneNode
}

func (c *CutsceneBuilder) Go(target string) *CutsceneBuilder {
	c.b.connect(c.n.ID(), schema.PortOutput, target)
	return c
}

// Audio adds a sound cue. Non-blocking by default.
func (b *Builder) Audio(id, clipID string) *AudioBuilder {
	n := nodes.NewAudio(id, clipID)
	b.add(n)
	return &AudioBuilder{b: b, n: n}
}

type AudioBuilder struct {
	b *Builder
	n *nodes.AudioNode
}

// Blocking holds the run for the clip's duration before advancing.
func (a *AudioBuilder) Blocking(d time.Duration) *AudioBuilder {
	a.n.Block = true
	a.n.Duration = d
	return a
}

func (a *AudioBuilder) Volume(v float64) *AudioBuilder {
	a.n.Volume = v
	return a
}

func (a *AudioBuilder) Go(target string) *AudioBuilder {
	a.b.connect(a.n.ID(), schema.PortOutput, target)
	return a
}

// End adds a terminal node.
func (b *Builder) End(id string) *Builder {
	b.add(nodes.NewEnd(id))
	return b
}
