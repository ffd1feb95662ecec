package models

// Built-in prelude shared by every Universe.
var (
	Boolean = primitive("boolean")
	Int     = primitive("int")
	Long    = primitive("long")
	Double  = primitive("double")
	Void    = primitive("void")

	Object  = &Type{Name: "Object", Kind: KindClass, Modifiers: ModPublic}
	String  = &Type{Name: "String", Kind: KindClass, Modifiers: ModPublic | ModFinal}
	Integer = &Type{Name: "Integer", Kind: KindClass, Modifiers: ModPublic | ModFinal}
	File    = &Type{Name: "File", Kind: KindClass, Modifiers: ModPublic}

	Iterable   = iface("Iterable", "T")
	Collection = iface("Collection", "E")
	List       = iface("List", "E")
	Set        = iface("Set", "E")
	Map        = iface("Map", "K", "V")

	Provider            = iface("Provider", "T")
	Property            = iface("Property", "T")
	HasMultipleValues   = iface("HasMultipleValues", "T")
	ListProperty        = iface("ListProperty", "T")
	SetProperty         = iface("SetProperty", "T")
	MapProperty         = iface("MapProperty", "K", "V")
	RegularFile         = iface("RegularFile")
	Directory           = iface("Directory")
	RegularFileProperty = iface("RegularFileProperty")
	DirectoryProperty   = iface("DirectoryProperty")

	FileCollection             = iface("FileCollection")
	ConfigurableFileCollection = iface("ConfigurableFileCollection")
	FileTree                   = iface("FileTree")
	ConfigurableFileTree       = iface("ConfigurableFileTree")
	DomainObjectSet            = iface("DomainObjectSet", "T")
	NamedDomainObjectContainer = iface("NamedDomainObjectContainer", "T")

	Action          = iface("Action", "T")
	Closure         = &Type{Name: "Closure", Kind: KindClass, Modifiers: ModPublic | ModAbstract}
	MetaClass       = iface("MetaClass")
	ServiceRegistry = iface("ServiceRegistry")

	DynamicObject         = iface("DynamicObject")
	DynamicObjectAware    = iface("DynamicObjectAware")
	DynamicObjectProtocol = iface("DynamicObjectProtocol")
	ExtensionAware        = iface("ExtensionAware")
	ExtensionContainer    = iface("ExtensionContainer")
	ConventionAware       = iface("ConventionAware")
	ConventionMapping     = iface("ConventionMapping")
	Convention            = iface("Convention")
	Managed               = iface("Managed")
	GeneratedSubclass     = iface("GeneratedSubclass")

	Inject                  = annotationType("Inject")
	Nested                  = annotationType("Nested")
	NonExtensible           = annotationType("NonExtensible")
	NoConventionMapping     = annotationType("NoConventionMapping")
	InjectionPointQualifier = annotationType("InjectionPointQualifier")
)

func init() {
	Object.AddMethod(&Method{Name: "toString", Return: Ref(String), Modifiers: ModPublic})
	Object.AddMethod(&Method{Name: "hashCode", Return: Ref(Int), Modifiers: ModPublic})
	Object.AddMethod(&Method{Name: "equals", Params: []TypeRef{Ref(Object)}, Return: Ref(Boolean), Modifiers: ModPublic})

	Collection.Interfaces = []TypeRef{Ref(Iterable, VarRef("E"))}
	List.Interfaces = []TypeRef{Ref(Collection, VarRef("E"))}
	Set.Interfaces = []TypeRef{Ref(Collection, VarRef("E"))}

	Property.Interfaces = []TypeRef{Ref(Provider, VarRef("T"))}
	ListProperty.Interfaces = []TypeRef{Ref(Provider, Ref(List, VarRef("T"))), Ref(HasMultipleValues, VarRef("T"))}
	SetProperty.Interfaces = []TypeRef{Ref(Provider, Ref(Set, VarRef("T"))), Ref(HasMultipleValues, VarRef("T"))}
	MapProperty.Interfaces = []TypeRef{Ref(Provider, Ref(Map, VarRef("K"), VarRef("V")))}
	RegularFileProperty.Interfaces = []TypeRef{Ref(Property, Ref(RegularFile))}
	DirectoryProperty.Interfaces = []TypeRef{Ref(Property, Ref(Directory))}

	FileCollection.Interfaces = []TypeRef{Ref(Iterable, Ref(File))}
	ConfigurableFileCollection.Interfaces = []TypeRef{Ref(FileCollection)}
	FileTree.Interfaces = []TypeRef{Ref(FileCollection)}
	ConfigurableFileTree.Interfaces = []TypeRef{Ref(FileTree)}
	DomainObjectSet.Interfaces = []TypeRef{Ref(Set, VarRef("T"))}
	NamedDomainObjectContainer.Interfaces = []TypeRef{Ref(Set, VarRef("T"))}

	ExtensionAware.AddMethod(&Method{Name: "getExtensions", Return: Ref(ExtensionContainer), Modifiers: ModPublic})
	DynamicObjectAware.AddMethod(&Method{Name: "getAsDynamicObject", Return: Ref(DynamicObject), Modifiers: ModPublic})
	ConventionAware.AddMethod(&Method{Name: "getConventionMapping", Return: Ref(ConventionMapping), Modifiers: ModPublic})
}

// Builtins returns every prelude type
func Builtins() []*Type {
	return []*Type{
		Boolean, Int, Long, Double, Void,
		Object, String, Integer, File,
		Iterable, Collection, List, Set, Map,
		Provider, Property, HasMultipleValues, ListProperty, SetProperty, MapProperty,
		RegularFile, Directory, RegularFileProperty, DirectoryProperty,
		FileCollection, ConfigurableFileCollection, FileTree, ConfigurableFileTree,
		DomainObjectSet, NamedDomainObjectContainer,
		Action, Closure, MetaClass, ServiceRegistry,
		DynamicObject, DynamicObjectAware, DynamicObjectProtocol,
		ExtensionAware, ExtensionContainer, ConventionAware, ConventionMapping, Convention,
		Managed, GeneratedSubclass,
		Inject, Nested, NonExtensible, NoConventionMapping, InjectionPointQualifier,
	}
}

func primitive(name string) *Type {
	return &Type{Name: name, Kind: KindPrimitive, Modifiers: ModPublic}
}

func iface(name string, params ...string) *Type {
	return &Type{Name: name, Kind: KindInterface, Modifiers: ModPublic, TypeParams: params}
}

func annotationType(name string) *Type {
	return &Type{Name: name, Kind: KindAnnotation, Modifiers: ModPublic}
}
