package cpu

import "github.com/markwinap/dmgcore/gb/gberr"

// invalidOpcodes is the fixed set of undefined DMG opcodes; executing one
// traps, per spec.md §4.1.
var invalidOpcodes = map[uint8]bool{
	0xD3: true, 0xDB: true, 0xDD: true, 0xE3: true, 0xE4: true,
	0xEB: true, 0xEC: true, 0xED: true, 0xF4: true, 0xFC: true, 0xFD: true,
}

func (c *CPU) readR(z uint8) uint8 {
	if z == 6 {
		return c.bus.Read(c.hl())
	}
	return *c.reg8(z)
}

func (c *CPU) writeR(z uint8, v uint8) {
	if z == 6 {
		c.bus.Write(c.hl(), v)
		return
	}
	*c.reg8(z) = v
}

func (c *CPU) getRP(p uint8) uint16 {
	switch p & 0x03 {
	case 0:
		return c.bc()
	case 1:
		return c.de()
	case 2:
		return c.hl()
	default:
		return c.sp
	}
}

func (c *CPU) setRP(p uint8, v uint16) {
	switch p & 0x03 {
	case 0:
		c.setBC(v)
	case 1:
		c.setDE(v)
	case 2:
		c.setHL(v)
	default:
		c.sp = v
	}
}

func (c *CPU) getRP2(p uint8) uint16 {
	if p&0x03 == 3 {
		return c.af()
	}
	return c.getRP(p)
}

func (c *CPU) setRP2(p uint8, v uint16) {
	if p&0x03 == 3 {
		c.setAF(v)
		return
	}
	c.setRP(p, v)
}

// execute decodes and runs one unprefixed opcode using the classic
// x/y/z/p/q bit-field decomposition of the Sharp LR35902 encoding, and
// returns the T-cycles it consumed.
func (c *CPU) execute(opcode uint8) (int, error) {
	if invalidOpcodes[opcode] {
		return 0, &gberr.InvalidOpcode{Opcode: opcode, PC: c.pc - 1}
	}

	x := opcode >> 6
	y := (opcode >> 3) & 0x07
	z := opcode & 0x07
	p := y >> 1
	q := y & 0x01

	switch x {
	case 0:
		return c.executeX0(opcode, y, z, p, q)
	case 1:
		if y == 6 && z == 6 {
			c.enterHalt()
			return 4, nil
		}
		c.writeR(y, c.readR(z))
		if y == 6 || z == 6 {
			return 8, nil
		}
		return 4, nil
	case 2:
		c.executeALU(y, c.readR(z))
		return cyclesRW(z), nil
	default: // x == 3
		return c.executeX3(opcode, y, z, p, q)
	}
}

func (c *CPU) executeX0(_ uint8, y, z, p, q uint8) (int, error) {
	switch z {
	case 0:
		switch {
		case y == 0:
			return 4, nil // NOP
		case y == 1:
			addr := c.fetch16()
			c.bus.Write(addr, uint8(c.sp))
			c.bus.Write(addr+1, uint8(c.sp>>8))
			return 20, nil
		case y == 2:
			c.enterStop()
			return 4, nil
		case y == 3:
			c.jr(int8(c.fetch8()))
			return 12, nil
		default: // 4..7: JR cc,d
			d := int8(c.fetch8())
			if c.condition(y - 4) {
				c.jr(d)
				return 12, nil
			}
			return 8, nil
		}
	case 1:
		if q == 0 {
			c.setRP(p, c.fetch16())
			return 12, nil
		}
		c.setHL(c.add16(c.hl(), c.getRP(p)))
		return 8, nil
	case 2:
		addrReg := [4]func() uint16{c.bc, c.de, func() uint16 { v := c.hl(); c.setHL(v + 1); return v }, func() uint16 { v := c.hl(); c.setHL(v - 1); return v }}
		target := addrReg[p]()
		if q == 0 {
			c.bus.Write(target, c.a)
		} else {
			c.a = c.bus.Read(target)
		}
		return 8, nil
	case 3:
		if q == 0 {
			c.setRP(p, c.getRP(p)+1)
		} else {
			c.setRP(p, c.getRP(p)-1)
		}
		return 8, nil
	case 4:
		c.writeR(y, c.inc8(c.readR(y)))
		return cyclesINCDEC(y), nil
	case 5:
		c.writeR(y, c.dec8(c.readR(y)))
		return cyclesINCDEC(y), nil
	case 6:
		c.writeR(y, c.fetch8())
		if y == 6 {
			return 12, nil
		}
		return 8, nil
	default: // z == 7
		switch y {
		case 0:
			c.a = c.rlc(c.a)
			c.setFlag(flagZ, false)
		case 1:
			c.a = c.rrc(c.a)
			c.setFlag(flagZ, false)
		case 2:
			c.a = c.rl(c.a)
			c.setFlag(flagZ, false)
		case 3:
			c.a = c.rr(c.a)
			c.setFlag(flagZ, false)
		case 4:
			c.daa()
		case 5:
			c.cpl()
		case 6:
			c.scf()
		case 7:
			c.ccf()
		}
		return 4, nil
	}
}

func (c *CPU) jr(d int8) {
	c.pc = uint16(int32(c.pc) + int32(d))
}

func (c *CPU) executeALU(op uint8, operand uint8) {
	switch op {
	case 0:
		c.a = c.add8(c.a, operand, false)
	case 1:
		c.a = c.add8(c.a, operand, c.flag(flagC))
	case 2:
		c.a = c.sub8(c.a, operand, false)
	case 3:
		c.a = c.sub8(c.a, operand, c.flag(flagC))
	case 4:
		c.a = c.and8(c.a, operand)
	case 5:
		c.a = c.xor8(c.a, operand)
	case 6:
		c.a = c.or8(c.a, operand)
	case 7:
		c.cp8(c.a, operand)
	}
}

func cyclesRW(z uint8) int {
	if z == 6 {
		return 8
	}
	return 4
}

func cyclesINCDEC(y uint8) int {
	if y == 6 {
		return 12
	}
	return 4
}

func (c *CPU) executeX3(_ uint8, y, z, p, q uint8) (int, error) {
	switch z {
	case 0:
		switch {
		case y <= 3:
			if c.condition(y) {
				c.pc = c.pop16()
				return 20, nil
			}
			return 8, nil
		case y == 4:
			c.bus.Write(0xFF00+uint16(c.fetch8()), c.a)
			return 12, nil
		case y == 5:
			c.sp = c.addSPSigned(int8(c.fetch8()))
			return 16, nil
		case y == 6:
			c.a = c.bus.Read(0xFF00 + uint16(c.fetch8()))
			return 12, nil
		default: // y == 7
			c.setHL(c.addSPSigned(int8(c.fetch8())))
			return 12, nil
		}
	case 1:
		if q == 0 {
			c.setRP2(p, c.pop16())
			return 12, nil
		}
		switch p {
		case 0:
			c.pc = c.pop16()
			return 16, nil
		case 1:
			c.pc = c.pop16()
			c.bus.Interrupts().SetIME(true)
			return 16, nil
		case 2:
			c.pc = c.hl()
			return 4, nil
		default:
			c.sp = c.hl()
			return 8, nil
		}
	case 2:
		switch {
		case y <= 3:
			addr := c.fetch16()
			if c.condition(y) {
				c.pc = addr
				return 16, nil
			}
			return 12, nil
		case y == 4:
			c.bus.Write(0xFF00+uint16(c.c), c.a)
			return 8, nil
		case y == 5:
			c.bus.Write(c.fetch16(), c.a)
			return 16, nil
		case y == 6:
			c.a = c.bus.Read(0xFF00 + uint16(c.c))
			return 8, nil
		default:
			c.a = c.bus.Read(c.fetch16())
			return 16, nil
		}
	case 3:
		switch y {
		case 0:
			c.pc = c.fetch16()
			return 16, nil
		case 1:
			cycles, err := c.executeCB(c.fetch8())
			return cycles, err
		case 6:
			c.bus.Interrupts().SetIME(false)
			return 4, nil
		default: // 7
			c.bus.Interrupts().RequestEnable()
			return 4, nil
		}
	case 4:
		addr := c.fetch16()
		if c.condition(y) {
			c.push16(c.pc)
			c.pc = addr
			return 24, nil
		}
		return 12, nil
	case 5:
		if q == 0 {
			c.push16(c.getRP2(p))
			return 16, nil
		}
		addr := c.fetch16()
		c.push16(c.pc)
		c.pc = addr
		return 24, nil
	case 6:
		c.executeALU(y, c.fetch8())
		return 8, nil
	default: // z == 7, RST
		c.push16(c.pc)
		c.pc = uint16(y) * 8
		return 16, nil
	}
}

// executeCB decodes and runs one CB-prefixed opcode.
func (c *CPU) executeCB(opcode uint8) (int, error) {
	y := (opcode >> 3) & 0x07
	z := opcode & 0x07
	x := opcode >> 6

	switch x {
	case 0: // rotate/shift group, indexed by y
		var r uint8
		v := c.readR(z)
		switch y {
		case 0:
			r = c.rlc(v)
		case 1:
			r = c.rrc(v)
		case 2:
			r = c.rl(v)
		case 3:
			r = c.rr(v)
		case 4:
			r = c.sla(v)
		case 5:
			r = c.sra(v)
		case 6:
			r = c.swap(v)
		default:
			r = c.srl(v)
		}
		c.writeR(z, r)
		if z == 6 {
			return 16, nil
		}
		return 8, nil
	case 1: // BIT y,r[z]
		c.bitTest(y, c.readR(z))
		if z == 6 {
			return 12, nil
		}
		return 8, nil
	case 2: // RES y,r[z]
		c.writeR(z, c.readR(z)&^(1<<y))
		if z == 6 {
			return 16, nil
		}
		return 8, nil
	default: // SET y,r[z]
		c.writeR(z, c.readR(z)|(1<<y))
		if z == 6 {
			return 16, nil
		}
		return 8, nil
	}
}
