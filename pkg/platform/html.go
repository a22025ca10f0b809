package platform

import "strings"

// HTML implements Predicates for HTML documents.
type HTML struct{}

var _ Predicates = HTML{}

var htmlTags = toSet(
	"html,body,base,head,link,meta,style,title," +
		"address,article,aside,footer,header,h1,h2,h3,h4,h5,h6,hgroup,nav,section," +
		"div,dd,dl,dt,figcaption,figure,picture,hr,img,li,main,ol,p,pre,ul," +
		"a,b,abbr,bdi,bdo,br,cite,code,data,dfn,em,i,kbd,mark,q,rp,rt,rtc,ruby," +
		"s,samp,small,span,strong,sub,sup,time,u,var,wbr,area,audio,map,track,video," +
		"embed,object,param,source,canvas,script,noscript,del,ins," +
		"caption,col,colgroup,table,thead,tbody,td,th,tr," +
		"button,datalist,fieldset,form,input,label,legend,meter,optgroup,option," +
		"output,progress,select,textarea," +
		"details,dialog,menu,menuitem,summary," +
		"content,element,shadow,template,blockquote,iframe,tfoot")

var svgTags = toSet(
	"svg,animate,circle,clippath,cursor,defs,desc,ellipse,filter,font-face," +
		"foreignobject,g,glyph,image,line,marker,mask,missing-glyph,path,pattern," +
		"polygon,polyline,rect,switch,symbol,text,textpath,tspan,use,view")

// unaryTags are elements that cannot have children.
var unaryTags = toSet(
	"area,base,br,col,embed,frame,hr,img,input,isindex,keygen," +
		"link,meta,param,source,track,wbr")

var textInputTypes = toSet("text,number,password,search,email,tel,url")

func toSet(list string) map[string]bool {
	m := make(map[string]bool)
	for _, s := range strings.Split(list, ",") {
		m[s] = true
	}
	return m
}

// IsReservedTag reports HTML and SVG tags.
func (HTML) IsReservedTag(tag string) bool {
	return htmlTags[tag] || svgTags[tag]
}

// IsUnaryTag reports void elements.
func (HTML) IsUnaryTag(tag string) bool {
	return unaryTags[tag]
}

// MustUseProp reports attributes that only take effect as properties.
func (HTML) MustUseProp(tag, inputType, attr string) bool {
	switch attr {
	case "value":
		switch tag {
		case "input":
			return inputType != "button"
		case "textarea", "option", "select", "progress":
			return true
		}
	case "selected":
		return tag == "option"
	case "checked":
		return tag == "input"
	case "muted":
		return tag == "video"
	}
	return false
}

// GetTagNamespace returns "svg" or "math" for tags in those namespaces.
func (HTML) GetTagNamespace(tag string) string {
	if svgTags[tag] {
		return "svg"
	}
	if tag == "math" {
		return "math"
	}
	return ""
}

// IsUnknownElement reports tags that are neither HTML, SVG nor custom
// elements (which must contain a dash).
func (h HTML) IsUnknownElement(tag string) bool {
	tag = strings.ToLower(tag)
	if h.IsReservedTag(tag) || tag == "math" {
		return false
	}
	return !strings.Contains(tag, "-")
}

// IsTextInputType reports input types that share the text editing model.
func IsTextInputType(t string) bool {
	return textInputTypes[t]
}
