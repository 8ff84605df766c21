package java

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/jdiagram/classfile"
)

func ClassModelFromFile(path string) (*ClassModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open class file")
	}
	defer f.Close()
	model, err := ClassModelFromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	model.Source = path
	return model, nil
}

func ClassModelFromReader(r io.Reader) (*ClassModel, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return nil, err
	}
	return ClassModelFromClassFile(cf), nil
}

// ClassModelFromClassFile converts a decoded class file. Generic signatures
// take precedence over descriptors; a malformed signature falls back to the
// erased descriptor types.
func ClassModelFromClassFile(cf *classfile.ClassFile) *ClassModel {
	className := classfile.InternalToSourceName(cf.ClassName())
	pkg, simpleName := splitClassName(className)

	model := &ClassModel{
		Name:       className,
		SimpleName: simpleName,
		Package:    pkg,
		Visibility: visibilityFromAccessFlags(cf.AccessFlags),
		Kind:       classKindFromClassFile(cf),
		IsFinal:    cf.AccessFlags.IsFinal(),
		IsAbstract: cf.AccessFlags.IsAbstract(),
		IsSealed:   cf.Attributes.Find(cf.ConstantPool, classfile.AttrPermittedSubclasses) != nil,
	}
	if model.Kind == ClassKindPackage || model.Kind == ClassKindModule {
		return model
	}

	applySupertypes(model, cf)

	for _, ic := range cf.InnerClasses() {
		inner := InnerClassModel{
			InnerClass: classfile.InternalToSourceName(ic.Name),
			OuterClass: classfile.InternalToSourceName(ic.OuterName),
			InnerName:  ic.InnerName,
			Visibility: visibilityFromAccessFlags(ic.AccessFlags),
			IsStatic:   ic.AccessFlags.IsStatic(),
		}
		model.InnerClasses = append(model.InnerClasses, inner)

		if ic.Name != cf.ClassName() {
			continue
		}
		// The entry describing this class carries its source-level access
		// flags; the class file's own flags only distinguish public.
		if ic.IsMember() {
			model.EnclosingClass = inner.OuterClass
			model.SimpleName = ic.InnerName
		} else {
			model.IsLocal = true
			model.SimpleName = ic.InnerName
		}
		model.Visibility = inner.Visibility
		model.IsStatic = inner.IsStatic
		model.IsAbstract = ic.AccessFlags.IsAbstract()
		model.IsFinal = ic.AccessFlags.IsFinal()
	}

	for i := range cf.Fields {
		field := &cf.Fields[i]
		if field.AccessFlags.IsSynthetic() {
			continue
		}
		model.Fields = append(model.Fields, fieldModelFromMember(field, cf.ConstantPool))
	}

	isInterface := model.Kind == ClassKindInterface || model.Kind == ClassKindAnnotation
	for i := range cf.Methods {
		method := &cf.Methods[i]
		if method.AccessFlags.IsSynthetic() || method.IsBridge() {
			continue
		}
		if method.IsStaticInitializer(cf.ConstantPool) {
			continue
		}
		model.Methods = append(model.Methods, methodModelFromMember(method, cf.ConstantPool, isInterface))
	}

	return model
}

func applySupertypes(model *ClassModel, cf *classfile.ClassFile) {
	if sig := cf.Signature(); sig != "" {
		if parsed, err := classfile.ParseClassSignature(sig); err == nil {
			model.TypeParameters = typeParameterModels(parsed.TypeParameters)
			if cf.SuperClass != 0 {
				super := typeModelFromSignature(parsed.Superclass)
				model.SuperClass = &super
			}
			for _, iface := range parsed.Interfaces {
				model.Interfaces = append(model.Interfaces, typeModelFromSignature(iface))
			}
			return
		}
	}

	if cf.SuperClass != 0 {
		model.SuperClass = &TypeModel{Name: classfile.InternalToSourceName(cf.SuperClassName())}
	}
	for _, iface := range cf.InterfaceNames() {
		model.Interfaces = append(model.Interfaces, TypeModel{Name: classfile.InternalToSourceName(iface)})
	}
}

func visibilityFromAccessFlags(flags classfile.AccessFlags) Visibility {
	if flags.IsPublic() {
		return VisibilityPublic
	}
	if flags.IsProtected() {
		return VisibilityProtected
	}
	if flags.IsPrivate() {
		return VisibilityPrivate
	}
	return VisibilityPackage
}

func classKindFromClassFile(cf *classfile.ClassFile) ClassKind {
	if cf.IsModule() {
		return ClassKindModule
	}
	if cf.IsPackageInfo() {
		return ClassKindPackage
	}
	if cf.IsAnnotation() {
		return ClassKindAnnotation
	}
	if cf.IsEnum() {
		return ClassKindEnum
	}
	if cf.IsInterface() {
		return ClassKindInterface
	}
	return ClassKindClass
}

func fieldModelFromMember(f *classfile.MemberInfo, cp classfile.ConstantPool) FieldModel {
	model := FieldModel{
		Name:        f.Name(cp),
		Visibility:  visibilityFromAccessFlags(f.AccessFlags),
		IsStatic:    f.AccessFlags.IsStatic(),
		IsFinal:     f.AccessFlags.IsFinal(),
		IsVolatile:  f.AccessFlags.Has(classfile.AccVolatile),
		IsTransient: f.AccessFlags.Has(classfile.AccTransient),
	}
	for _, s := range []string{f.Signature(cp), f.Descriptor(cp)} {
		if s == "" {
			continue
		}
		if t, err := classfile.ParseFieldSignature(s); err == nil {
			model.Type = typeModelFromSignature(t)
			break
		}
	}
	return model
}

func methodModelFromMember(m *classfile.MemberInfo, cp classfile.ConstantPool, inInterface bool) MethodModel {
	flags := m.AccessFlags
	model := MethodModel{
		Name:           m.Name(cp),
		Visibility:     visibilityFromAccessFlags(flags),
		IsStatic:       flags.IsStatic(),
		IsFinal:        flags.IsFinal(),
		IsAbstract:     flags.IsAbstract(),
		IsSynchronized: flags.Has(classfile.AccSynchronized),
		IsNative:       flags.Has(classfile.AccNative),
		IsStrict:       flags.Has(classfile.AccStrict),
	}
	model.IsDefault = inInterface && !model.IsAbstract && !model.IsStatic && !flags.IsPrivate()

	desc, err := classfile.ParseMethodSignature(m.Descriptor(cp))
	if err != nil {
		model.ReturnType = TypeModel{Name: "void"}
		return model
	}
	sig := desc
	if s := m.Signature(cp); s != "" {
		if parsed, err := classfile.ParseMethodSignature(s); err == nil {
			sig = parsed
			model.TypeParameters = typeParameterModels(parsed.TypeParameters)
		}
	}

	model.ReturnType = typeModelFromSignature(sig.Return)

	names := parameterNames(m, cp, desc.Parameters, model.IsStatic)
	// Signatures omit synthetic leading parameters such as the outer
	// instance of an inner class constructor.
	offset := len(desc.Parameters) - len(sig.Parameters)
	if offset < 0 {
		offset = 0
	}
	for i, param := range sig.Parameters {
		name := fmt.Sprintf("arg%d", i)
		if i+offset < len(names) && names[i+offset] != "" {
			name = names[i+offset]
		}
		model.Parameters = append(model.Parameters, ParameterModel{
			Name: name,
			Type: typeModelFromSignature(param),
		})
	}

	return model
}

// parameterNames recovers source names for the descriptor parameters, from
// MethodParameters first and then from the local variable table. Missing
// names are left empty.
func parameterNames(m *classfile.MemberInfo, cp classfile.ConstantPool, params []classfile.TypeSignature, isStatic bool) []string {
	if names := m.Attributes.ParameterNames(cp); len(names) == len(params) {
		return names
	}

	locals := m.Attributes.LocalVariables(cp)
	if len(locals) == 0 {
		return nil
	}
	bySlot := make(map[uint16]string, len(locals))
	for _, lv := range locals {
		if lv.StartPC == 0 {
			bySlot[lv.Slot] = lv.Name
		}
	}

	names := make([]string, len(params))
	slot := uint16(1)
	if isStatic {
		slot = 0
	}
	for i, p := range params {
		names[i] = bySlot[slot]
		slot++
		if p.ArrayDepth == 0 && (p.BaseType == "long" || p.BaseType == "double") {
			slot++
		}
	}
	return names
}

func typeModelFromSignature(t classfile.TypeSignature) TypeModel {
	model := TypeModel{ArrayDepth: t.ArrayDepth}
	switch {
	case t.BaseType != "":
		model.Name = t.BaseType
	case t.TypeVariable != "":
		model.Name = t.TypeVariable
		model.IsTypeVariable = true
	default:
		model.Name = classfile.InternalToSourceName(t.ClassName)
	}
	for _, arg := range t.TypeArguments {
		model.TypeArguments = append(model.TypeArguments, typeArgumentModel(arg))
	}
	return model
}

func typeArgumentModel(arg classfile.TypeArgument) TypeArgumentModel {
	switch arg.Wildcard {
	case classfile.WildcardAny:
		return TypeArgumentModel{IsWildcard: true}
	case classfile.WildcardExtends, classfile.WildcardSuper:
		bound := typeModelFromSignature(*arg.Type)
		kind := "extends"
		if arg.Wildcard == classfile.WildcardSuper {
			kind = "super"
		}
		return TypeArgumentModel{IsWildcard: true, BoundKind: kind, Bound: &bound}
	}
	t := typeModelFromSignature(*arg.Type)
	return TypeArgumentModel{Type: &t}
}

func typeParameterModels(params []classfile.TypeParameter) []TypeParameterModel {
	var result []TypeParameterModel
	for _, p := range params {
		tp := TypeParameterModel{Name: p.Name}
		for _, b := range p.Bounds {
			tp.Bounds = append(tp.Bounds, typeModelFromSignature(b))
		}
		result = append(result, tp)
	}
	return result
}
