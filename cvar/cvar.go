// SPDX-License-Identifier: GPL-2.0-or-later

package cvar

import (
	"fmt"
	"log"
	"strconv"

	"sectorgl/conlog"
)

var (
	cvarArray  []*Cvar
	cvarByName = make(map[string]*Cvar)
)

type flag uint64

const (
	// cvar flags bitfield
	NONE    flag = 0
	ARCHIVE flag = 1
	ROM     flag = 1 << 6
)

type CallbackFunc func(cv *Cvar)

type Cvar struct {
	archive  bool
	rom      bool
	user     bool
	callback CallbackFunc
	name     string
	// stringValue is the truth, value the derived one
	stringValue  string
	value        float32
	defaultValue string
	id           int
}

func All() []*Cvar {
	return cvarArray
}

func (cv *Cvar) Archive() bool {
	return cv.archive
}

func (cv *Cvar) UserDefined() bool {
	return cv.user
}

func (cv *Cvar) SetCallback(cb CallbackFunc) {
	cv.callback = cb
}

func (cv *Cvar) SetByString(s string) {
	if cv.rom {
		return
	}
	cv.stringValue = s
	pf, _ := strconv.ParseFloat(cv.stringValue, 32)
	cv.value = float32(pf)
	if cv.callback != nil {
		cv.callback(cv)
	}
}

func (cv *Cvar) Reset() {
	cv.SetByString(cv.defaultValue)
}

func (cv *Cvar) String() string {
	return cv.stringValue
}

func (cv *Cvar) ID() int {
	return cv.id
}

func (cv *Cvar) Name() string {
	return cv.name
}

func (cv *Cvar) Value() float32 {
	return cv.value
}

func (cv *Cvar) SetValue(value float32) {
	if float32(int(value)) == value {
		v := strconv.FormatInt(int64(value), 10)
		cv.SetByString(v)
	} else {
		v := strconv.FormatFloat(float64(value), 'f', -1, 32)
		cv.SetByString(v)
	}
}

func (cv *Cvar) Toggle() {
	if cv.String() == "1" {
		cv.SetByString("0")
	} else {
		cv.SetByString("1")
	}
}

func (cv *Cvar) Bool() bool {
	return cv.stringValue != "0"
}

func Get(name string) (*Cvar, bool) {
	cv, ok := cvarByName[name]
	return cv, ok
}

func create(name, value string) *Cvar {
	cv := &Cvar{name: name, defaultValue: value}
	cv.SetByString(value)
	pos := len(cvarArray)
	cvarArray = append(cvarArray, cv)
	cvarByName[name] = cv
	cv.id = pos
	return cv
}

func Register(name, value string, flags flag) (*Cvar, error) {
	if _, ok := cvarByName[name]; ok {
		return nil, fmt.Errorf("Can't register variable %s, already defined\n", name)
	}

	cv := create(name, value)

	if flags&ARCHIVE != 0 {
		cv.archive = true
	}
	if flags&ROM != 0 {
		cv.rom = true
	}

	return cv, nil
}

func MustRegister(n, v string, flag flag) *Cvar {
	cv, err := Register(n, v, flag)
	if err != nil {
		log.Panic(n)
	}
	return cv
}

// Execute handles "<cvar> [value]", "set <cvar> <value>", "toggle <cvar>"
// and "reset <cvar>". It reports whether args named a cvar command.
func Execute(args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "set":
		if len(args) < 3 {
			return true, fmt.Errorf("set <cvar> <value>")
		}
		if cv, ok := Get(args[1]); ok {
			cv.SetByString(args[2])
		} else {
			cv := create(args[1], args[2])
			cv.user = true
		}
		return true, nil
	case "toggle":
		if len(args) != 2 {
			return true, fmt.Errorf("toggle <cvar>")
		}
		cv, ok := Get(args[1])
		if !ok {
			return true, fmt.Errorf("toggle: variable %v not found", args[1])
		}
		cv.Toggle()
		return true, nil
	case "reset":
		if len(args) != 2 {
			return true, fmt.Errorf("reset <cvar>")
		}
		cv, ok := Get(args[1])
		if !ok {
			return true, fmt.Errorf("reset: variable %v not found", args[1])
		}
		cv.Reset()
		return true, nil
	case "cvarlist":
		List()
		return true, nil
	}
	cv, ok := Get(args[0])
	if !ok {
		return false, nil
	}
	if len(args) == 1 {
		conlog.Printf("\"%s\" is \"%s\"\n", cv.Name(), cv.String())
		return true, nil
	}
	cv.SetByString(args[1])
	return true, nil
}

// List prints all cvars. Archived ones are marked with *, ones created by
// set with u.
func List() {
	all := All()
	for _, v := range all {
		a := " "
		switch {
		case v.Archive():
			a = "*"
		case v.UserDefined():
			a = "u"
		}
		conlog.Printf("%s %s \"%s\"\n", a, v.Name(), v.String())
	}
	conlog.Printf("%v cvars\n", len(all))
}
