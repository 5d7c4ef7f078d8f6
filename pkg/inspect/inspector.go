package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bacstack/msv-go/pkg/bacnet"
	"github.com/bacstack/msv-go/pkg/encoding"
	"github.com/bacstack/msv-go/pkg/model"
	"github.com/bacstack/msv-go/pkg/property"
)

// Inspector errors.
var (
	ErrPartialPath = errors.New("path does not name a property")
)

// DefaultBufferSize is the read buffer size, one maximum APDU.
const DefaultBufferSize = 1476

// Target is the object host being inspected. *service.Host implements it.
type Target interface {
	ReadProperty(req *property.ReadRequest, out *encoding.Buffer) error
	WriteProperty(req *property.WriteRequest) error
}

// Inspector reads and writes properties of a local object host.
type Inspector struct {
	target  Target
	lists   model.PropertyLists
	bufSize int
}

// NewInspector creates a new Inspector for target. lists names the
// properties shown by InspectObject.
func NewInspector(target Target, lists model.PropertyLists) *Inspector {
	return &Inspector{target: target, lists: lists, bufSize: DefaultBufferSize}
}

// PropertyInfo represents one property for display.
type PropertyInfo struct {
	ID    bacnet.PropertyID
	Value string
	Err   error
}

// ObjectInfo represents an object and its properties for display.
type ObjectInfo struct {
	Instance   uint32
	Properties []PropertyInfo
}

// ReadProperty reads the property at path and formats it.
func (i *Inspector) ReadProperty(path *Path, f *Formatter) (string, error) {
	if path.IsPartial {
		return "", ErrPartialPath
	}
	out := encoding.NewBuffer(i.bufSize)
	err := i.target.ReadProperty(&property.ReadRequest{
		Instance:   path.Instance,
		Property:   path.Property,
		ArrayIndex: path.ArrayIndex,
	}, out)
	if err != nil {
		return "", err
	}
	return f.FormatEncoded(path.Property, out.Bytes())
}

// WriteProperty encodes input for the property at path and writes it at
// priority.
func (i *Inspector) WriteProperty(path *Path, input string, priority uint8) error {
	if path.IsPartial {
		return ErrPartialPath
	}
	value, err := EncodeValue(path.Property, input)
	if err != nil {
		return err
	}
	return i.target.WriteProperty(&property.WriteRequest{
		Instance:   path.Instance,
		Property:   path.Property,
		ArrayIndex: path.ArrayIndex,
		Priority:   priority,
		Value:      value,
	})
}

// InspectObject reads every listed property of the object. Per-property
// failures are kept in the result; an unknown object is an error.
func (i *Inspector) InspectObject(instance uint32, f *Formatter) (*ObjectInfo, error) {
	info := &ObjectInfo{Instance: instance}
	for _, p := range i.lists.All() {
		value, err := i.ReadProperty(&Path{Instance: instance, Property: p, ArrayIndex: bacnet.ArrayAll}, f)
		if errors.Is(err, bacnet.NewError(bacnet.ErrorClassObject, bacnet.ErrorCodeUnknownObject)) {
			return nil, err
		}
		info.Properties = append(info.Properties, PropertyInfo{ID: p, Value: value, Err: err})
	}
	return info, nil
}

// FormatObject renders an object for display.
func (i *Inspector) FormatObject(info *ObjectInfo, f *Formatter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", bacnet.ObjectID{Type: bacnet.ObjectMultiStateValue, Instance: info.Instance})
	for _, p := range info.Properties {
		value := p.Value
		if p.Err != nil {
			value = f.FormatError(p.Err)
		}
		sb.WriteString(f.Indent(1, fmt.Sprintf("%s: %s\n", f.PropertyName(p.ID), value)))
	}
	return sb.String()
}
