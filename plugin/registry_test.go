package plugin_test

import (
	"math/rand"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/urlresolver/urlresolver/plugin"
	"github.com/urlresolver/urlresolver/plugin/plugintest"
)

func names(plugins []plugin.Plugin) []string {
	return lo.Map(plugins, func(p plugin.Plugin, _ int) string {
		return p.Name()
	})
}

func isOrdered(plugins []plugin.Plugin) bool {
	for i := 1; i < len(plugins); i++ {
		if plugin.Less(plugins[i], plugins[i-1]) {
			return false
		}
	}
	return true
}

func TestLess(t *testing.T) {
	Convey("Less", t, func() {
		Convey("Higher priority sorts first", func() {
			a := &plugintest.Stub{ID: "zzz", Weight: 200}
			b := &plugintest.Stub{ID: "aaa", Weight: 100}
			So(plugin.Less(a, b), ShouldBeTrue)
			So(plugin.Less(b, a), ShouldBeFalse)
		})

		Convey("Equal priority sorts by name ascending", func() {
			a := &plugintest.Stub{ID: "alpha", Weight: 100}
			b := &plugintest.Stub{ID: "beta", Weight: 100}
			So(plugin.Less(a, b), ShouldBeTrue)
			So(plugin.Less(b, a), ShouldBeFalse)
		})

		Convey("Equal keys are not less than each other", func() {
			a := &plugintest.Stub{ID: "same", Weight: 1}
			b := &plugintest.Stub{ID: "same", Weight: 1}
			So(plugin.Less(a, b), ShouldBeFalse)
			So(plugin.Less(b, a), ShouldBeFalse)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		reg := plugin.NewRegistry()

		Convey("Unknown capabilities return an empty list", func() {
			So(reg.Implementors(plugin.CapResolver), ShouldBeEmpty)
			So(reg.Resolvers(), ShouldBeEmpty)
			So(reg.FindResolvers("example.com"), ShouldBeEmpty)
		})

		Convey("A single plugin is inserted at index 0", func() {
			reg.Register(plugin.CapResolver, &plugintest.Stub{ID: "one", Weight: 5})
			So(names(reg.Implementors(plugin.CapResolver)), ShouldResemble, []string{"one"})
		})

		Convey("Inserting around a single element respects both boundaries", func() {
			reg.Register(plugin.CapResolver, &plugintest.Stub{ID: "mid", Weight: 50})
			reg.Register(plugin.CapResolver, &plugintest.Stub{ID: "low", Weight: 10})
			reg.Register(plugin.CapResolver, &plugintest.Stub{ID: "high", Weight: 90})
			So(names(reg.Implementors(plugin.CapResolver)), ShouldResemble, []string{"high", "mid", "low"})
		})

		Convey("Ties on priority are broken alphabetically", func() {
			for _, name := range []string{"delta", "alpha", "charlie", "bravo"} {
				reg.Register(plugin.CapResolver, &plugintest.Stub{ID: name, Weight: 100})
			}
			So(names(reg.Implementors(plugin.CapResolver)), ShouldResemble, []string{"alpha", "bravo", "charlie", "delta"})
		})

		Convey("Duplicate keys keep insertion order", func() {
			first := &plugintest.Stub{ID: "dup", Weight: 1}
			second := &plugintest.Stub{ID: "dup", Weight: 1}
			reg.Register(plugin.CapResolver, first)
			reg.Register(plugin.CapResolver, second)

			list := reg.Implementors(plugin.CapResolver)
			So(list, ShouldHaveLength, 2)
			So(list[0], ShouldEqual, first)
			So(list[1], ShouldEqual, second)
		})

		Convey("The returned list is a copy", func() {
			reg.Register(plugin.CapResolver, &plugintest.Stub{ID: "a", Weight: 1})
			list := reg.Implementors(plugin.CapResolver)
			list[0] = &plugintest.Stub{ID: "mutated"}
			So(names(reg.Implementors(plugin.CapResolver)), ShouldResemble, []string{"a"})
		})

		Convey("The zero value accepts registrations", func() {
			var zero plugin.Registry
			zero.Register(plugin.CapResolver, &plugintest.Stub{ID: "b", Weight: 1})
			zero.Add(&plugintest.Stub{ID: "a", Weight: 1, Auth: true})

			So(names(zero.Implementors(plugin.CapResolver)), ShouldResemble, []string{"a", "b"})
			So(zero.Len(plugin.CapAuth), ShouldEqual, 1)
		})

		Convey("Add registers under every declared capability", func() {
			reg.Add(&plugintest.Stub{ID: "secure", Weight: 1, Auth: true})
			reg.Add(&plugintest.Stub{ID: "open", Weight: 1})

			So(names(reg.Implementors(plugin.CapResolver)), ShouldResemble, []string{"open", "secure"})
			So(names(reg.Implementors(plugin.CapAuth)), ShouldResemble, []string{"secure"})
			So(reg.Len(plugin.CapAuth), ShouldEqual, 1)
		})

		Convey("Get finds a plugin by name", func() {
			reg.Add(&plugintest.Stub{ID: "found", Weight: 1})
			p, ok := reg.Get(plugin.CapResolver, "found")
			So(ok, ShouldBeTrue)
			So(p.Name(), ShouldEqual, "found")

			_, ok = reg.Get(plugin.CapResolver, "missing")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRegistryOrderIsInsertionIndependent(t *testing.T) {
	Convey("Given a multiset of plugins", t, func() {
		var stubs []*plugintest.Stub
		for i, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
			stubs = append(stubs, &plugintest.Stub{ID: name, Weight: (i * 7) % 4})
		}
		stubs = append(stubs, &plugintest.Stub{ID: "z", Weight: 100}, &plugintest.Stub{ID: "y", Weight: -3})

		reference := plugin.NewRegistry()
		for _, s := range stubs {
			reference.Register(plugin.CapResolver, s)
		}
		expected := names(reference.Implementors(plugin.CapResolver))

		Convey("The reference order is sorted", func() {
			So(isOrdered(reference.Implementors(plugin.CapResolver)), ShouldBeTrue)
			So(expected[0], ShouldEqual, "z")
			So(expected[len(expected)-1], ShouldEqual, "y")
		})

		Convey("Every shuffled insertion order yields the same sorted list", func() {
			rng := rand.New(rand.NewSource(42))
			for round := 0; round < 200; round++ {
				shuffled := make([]*plugintest.Stub, len(stubs))
				copy(shuffled, stubs)
				rng.Shuffle(len(shuffled), func(i, j int) {
					shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
				})

				reg := plugin.NewRegistry()
				for _, s := range shuffled {
					reg.Register(plugin.CapResolver, s)
				}

				got := reg.Implementors(plugin.CapResolver)
				So(isOrdered(got), ShouldBeTrue)
				So(names(got), ShouldResemble, expected)
			}
		})
	})
}

func TestFindResolvers(t *testing.T) {
	Convey("Given resolvers for several domains", t, func() {
		reg := plugin.NewRegistry()
		reg.Add(&plugintest.Stub{ID: "tube", Weight: 100, Hosts: []string{"youtube.com", "youtu.be"}})
		reg.Add(&plugintest.Stub{ID: "debrid", Weight: 200, Hosts: []string{"youtube.com", "vimeo.com"}, Universal: true})
		reg.Add(&plugintest.Stub{ID: "vimeo", Weight: 100, Hosts: []string{"vimeo.com"}})

		Convey("Only resolvers claiming the domain are returned, in registry order", func() {
			found := reg.FindResolvers("youtube.com")
			So(found, ShouldHaveLength, 2)
			So(found[0].Name(), ShouldEqual, "debrid")
			So(found[1].Name(), ShouldEqual, "tube")
		})

		Convey("Matching is literal", func() {
			So(reg.FindResolvers("www.youtube.com"), ShouldBeEmpty)
			So(reg.FindResolvers("*"), ShouldBeEmpty)
		})
	})
}

func TestCapabilities(t *testing.T) {
	Convey("Capability queries", t, func() {
		open := &plugintest.Stub{ID: "open"}
		secure := &plugintest.Stub{ID: "secure", Auth: true}

		So(plugin.HasCapability(open, plugin.CapResolver), ShouldBeTrue)
		So(plugin.HasCapability(open, plugin.CapAuth), ShouldBeFalse)
		So(plugin.HasCapability(secure, plugin.CapAuth), ShouldBeTrue)

		_, ok := plugin.AsAuthenticator(open)
		So(ok, ShouldBeFalse)

		a, ok := plugin.AsAuthenticator(secure)
		So(ok, ShouldBeTrue)
		So(a.Name(), ShouldEqual, "secure")
	})
}
