package main

import (
	"os"
	"reflect"
	"strings"
	"time"

	musgen "github.com/mus-format/musgen-go/mus"
	genops "github.com/mus-format/musgen-go/options/generate"
	structops "github.com/mus-format/musgen-go/options/struct"
	typeops "github.com/mus-format/musgen-go/options/type"
	"github.com/poiesic/vidqa/core"
)

// Generates core/records_mus.gen.go, the serializers for everything the
// chunk index and transcript cache store.
func main() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	// go:generate runs from core
	if strings.HasSuffix(cwd, "core") {
		if err := os.Chdir(".."); err != nil {
			panic(err)
		}
	}
	g, err := musgen.NewCodeGenerator(
		genops.WithPkgPath("github.com/poiesic/vidqa/core"),
	)
	if err != nil {
		panic(err)
	}

	g.AddDefinedType(reflect.TypeFor[core.ID]())
	g.AddDefinedType(reflect.TypeFor[core.VideoID]())
	g.AddDefinedType(reflect.TypeFor[time.Duration]())

	err = g.AddStruct(reflect.TypeFor[core.Segment](),
		structops.WithField(), // Text
		structops.WithField(), // Start
		structops.WithField()) // Duration
	if err != nil {
		panic(err)
	}

	err = g.AddStruct(reflect.TypeFor[core.Chunk](),
		structops.WithField(), // Id
		structops.WithField(), // Index
		structops.WithField(), // Text
		structops.WithField(), // Start
		structops.WithField(), // End
		structops.WithField(), // StartTime
		structops.WithField(), // EndTime
		structops.WithField(), // HasTiming
		structops.WithField(typeops.WithLenValidator("ValidateVectorLength")))
	if err != nil {
		panic(err)
	}

	err = g.AddStruct(reflect.TypeFor[core.TranscriptRecord](),
		structops.WithField(),
		structops.WithField(),
		structops.WithField(typeops.WithLenValidator("ValidateSegmentCount")))
	if err != nil {
		panic(err)
	}

	bs, err := g.Generate()
	if err != nil {
		panic(err)
	}

	err = os.WriteFile("./core/records_mus.gen.go", bs, 0644)
	if err != nil {
		panic(err)
	}
}
