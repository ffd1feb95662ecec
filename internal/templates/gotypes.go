package templates

import (
	"github.com/toyz/decor/internal/models"
)

// goTypes maps prelude types to the Go types emitted code uses for them
var goTypes = map[*models.Type]string{
	models.Boolean: "bool",
	models.Int:     "int",
	models.Integer: "int",
	models.Long:    "int64",
	models.Double:  "float64",
	models.String:  "string",
	models.File:    "string",
	models.Object:  "any",

	models.Iterable:   "[]any",
	models.Collection: "[]any",
	models.List:       "[]any",
	models.Set:        "[]any",
	models.Map:        "map[string]any",

	models.Provider:                   "decor.Provider",
	models.Property:                   "*decor.Property",
	models.ListProperty:               "*decor.ListProperty",
	models.SetProperty:                "*decor.ListProperty",
	models.MapProperty:                "*decor.MapProperty",
	models.RegularFileProperty:        "*decor.FileProperty",
	models.DirectoryProperty:          "*decor.FileProperty",
	models.FileCollection:             "*decor.FileCollection",
	models.ConfigurableFileCollection: "*decor.FileCollection",
	models.FileTree:                   "*decor.FileCollection",
	models.ConfigurableFileTree:       "*decor.FileCollection",
	models.DomainObjectSet:            "*decor.DomainObjectSet",
	models.NamedDomainObjectContainer: "*decor.NamedContainer",

	models.Action:             "decor.Action",
	models.Closure:            "*decor.Closure",
	models.ServiceRegistry:    "decor.ServiceLookup",
	models.ExtensionContainer: "*decor.Extensions",
	models.ConventionMapping:  "decor.ConventionMapping",
	models.DynamicObject:      "decor.DynamicObject",
}

// managedConstructors create the value of a read-only managed property
var managedConstructors = map[*models.Type]string{
	models.Property:                   "decor.NewProperty()",
	models.ListProperty:               "decor.NewListProperty()",
	models.SetProperty:                "decor.NewSetProperty()",
	models.MapProperty:                "decor.NewMapProperty()",
	models.RegularFileProperty:        "decor.NewRegularFileProperty()",
	models.DirectoryProperty:          "decor.NewDirectoryProperty()",
	models.ConfigurableFileCollection: "decor.NewFileCollection()",
	models.ConfigurableFileTree:       "decor.NewFileTree()",
	models.DomainObjectSet:            "decor.NewDomainObjectSet()",
}

// GoType returns the Go type of a reference. void is "", type variables
// and user types are any.
func GoType(r models.TypeRef) string {
	if r.IsVar() {
		return "any"
	}
	t := r.Raw()
	if t == models.Void {
		return ""
	}
	if goType, ok := goTypes[t]; ok {
		return goType
	}
	return "any"
}

// zeroOf is an expression for the zero value of a Go type
func zeroOf(goType string) string {
	if goType == "any" {
		return "nil"
	}
	return "decor.As[" + goType + "](nil)"
}

// convert turns an any-typed expression into goType
func convert(expr, goType string) string {
	if goType == "any" {
		return expr
	}
	return "decor.As[" + goType + "](" + expr + ")"
}
