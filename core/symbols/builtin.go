package symbols

import "strings"

// builtinClasses lists the language-provided classes and interfaces that
// library types commonly extend or implement.
var builtinClasses = map[string]*Class{}

func init() {
	add := func(kind Kind, name, parent string, interfaces ...string) {
		builtinClasses[strings.ToLower(name)] = &Class{Name: name, Kind: kind, Parent: parent, Interfaces: interfaces}
	}
	iface := func(name string, extends ...string) { add(KindInterface, name, "", extends...) }
	class := func(name, parent string, interfaces ...string) { add(KindClass, name, parent, interfaces...) }

	iface("Traversable")
	iface("Iterator", "Traversable")
	iface("IteratorAggregate", "Traversable")
	iface("SeekableIterator", "Iterator")
	iface("OuterIterator", "Iterator")
	iface("RecursiveIterator", "Iterator")
	iface("ArrayAccess")
	iface("Countable")
	iface("Serializable")
	iface("Stringable")
	iface("JsonSerializable")
	iface("UnitEnum")
	iface("BackedEnum", "UnitEnum")
	iface("Throwable", "Stringable")
	iface("DateTimeInterface")

	class("stdClass", "")
	class("Closure", "")
	class("Generator", "", "Iterator")
	class("WeakMap", "", "ArrayAccess", "Countable", "IteratorAggregate")
	class("ArrayIterator", "", "SeekableIterator", "ArrayAccess", "Serializable", "Countable")
	class("ArrayObject", "", "IteratorAggregate", "ArrayAccess", "Serializable", "Countable")
	class("SplObjectStorage", "", "Countable", "Iterator", "Serializable", "ArrayAccess")
	class("DateTime", "", "DateTimeInterface")
	class("DateTimeImmutable", "", "DateTimeInterface")
	class("DateTimeZone", "")
	class("DateInterval", "")

	class("Exception", "", "Throwable")
	class("Error", "", "Throwable")
	class("ErrorException", "Exception")
	class("JsonException", "Exception")
	class("LogicException", "Exception")
	class("BadFunctionCallException", "LogicException")
	class("BadMethodCallException", "BadFunctionCallException")
	class("DomainException", "LogicException")
	class("InvalidArgumentException", "LogicException")
	class("LengthException", "LogicException")
	class("OutOfRangeException", "LogicException")
	class("RuntimeException", "Exception")
	class("OutOfBoundsException", "RuntimeException")
	class("OverflowException", "RuntimeException")
	class("RangeException", "RuntimeException")
	class("UnderflowException", "RuntimeException")
	class("UnexpectedValueException", "RuntimeException")
	class("TypeError", "Error")
	class("ValueError", "Error")
	class("ArgumentCountError", "TypeError")
	class("ArithmeticError", "Error")
	class("DivisionByZeroError", "ArithmeticError")
}

func builtinClass(name string) (*Class, bool) {
	c, ok := builtinClasses[strings.ToLower(strings.TrimPrefix(name, `\`))]
	return c, ok
}
