package ecs

import "strconv"

// Entity identifies an Instance by its model group and its position within
// that group. The zero Entity is never returned by Spawn.
type Entity uint64

const groupBits = 32

func makeEntity(group, index int) Entity {
	return Entity(uint64(group+1)<<groupBits | uint64(uint32(index)))
}

func (e Entity) group() int {
	return int(uint64(e)>>groupBits) - 1
}

func (e Entity) index() int {
	return int(uint32(e))
}

func (e Entity) String() string {
	return strconv.Itoa(e.group()) + ":" + strconv.Itoa(e.index())
}

func (e Entity) Valid() bool {
	return e > 0
}
