package internal

// EventSlots lists the "on*" handler slots probed on live elements, grouped
// like the DOM event families. A slot's event name is the slot minus "on".
var EventSlots = []string{
	// Mouse
	"onclick", "ondblclick", "onmousedown", "onmouseup", "onmousemove",
	"onmouseenter", "onmouseleave", "onmouseover", "onmouseout",
	"oncontextmenu", "onwheel", "onauxclick",

	// Keyboard
	"onkeydown", "onkeyup", "onkeypress",

	// Form
	"oninput", "onchange", "onsubmit", "onreset", "onfocus", "onblur",
	"onfocusin", "onfocusout", "onselect", "oninvalid", "onbeforeinput",
	"onautocomplete", "onautocompleteerror", "onsearch",

	// Drag
	"ondragstart", "ondrag", "ondragend", "ondragenter", "ondragover",
	"ondragleave", "ondrop", "ondragexit",

	// Touch
	"ontouchstart", "ontouchmove", "ontouchend", "ontouchcancel",

	// Pointer
	"onpointerdown", "onpointerup", "onpointermove", "onpointerenter",
	"onpointerleave", "onpointerover", "onpointerout", "onpointercancel",
	"ongotpointercapture", "onlostpointercapture",

	// Scroll and layout
	"onscroll", "onscrollend", "onresize",

	// Media
	"onplay", "onpause", "onended", "ontimeupdate", "onloadstart",
	"onloadeddata", "onloadedmetadata", "oncanplay", "oncanplaythrough",
	"onprogress", "onseeking", "onseeked", "onvolumechange", "onratechange",
	"ondurationchange", "onwaiting", "onplaying", "onstalled", "onsuspend",
	"onemptied", "oncuechange",

	// Resource
	"onload", "onerror", "onabort",

	// Animation and transition
	"onanimationstart", "onanimationend", "onanimationiteration", "onanimationcancel",
	"ontransitionstart", "ontransitionend", "ontransitionrun", "ontransitioncancel",

	// Clipboard
	"oncopy", "oncut", "onpaste",

	// Dialog, details and popover
	"oncancel", "onclose", "onshow", "ontoggle", "onbeforetoggle",

	// Selection
	"onselectstart", "onselectionchange",
}

// EventName returns the event name for a handler slot ("onclick" -> "click").
func EventName(slot string) string {
	if len(slot) > 2 && slot[:2] == "on" {
		return slot[2:]
	}
	return slot
}
