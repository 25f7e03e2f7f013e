// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strconv"
	"strings"

	"github.com/gogpu/xsc/diag"
)

// Parser is a recursive-descent parser over a token stream, producing one
// Program. Grounded on the teacher's wgsl.Parser (precedence-climbing
// expression parser, match/check/expect helper set, synchronize-to-next-
// statement error recovery), extended with HLSL's attribute/register/
// semantic/pack-offset annotations per spec.md 4.2.
type Parser struct {
	tokens  []Token
	current int
	source  string
	reports diag.Reports
}

// NewParser creates a parser over tokens. source is retained only to build
// excerpt text in diagnostics.
func NewParser(tokens []Token, source string) *Parser {
	return &Parser{tokens: tokens, source: source}
}

// Parse consumes the full token stream and returns one Program. Parse
// errors are collected, not fatal: the parser synchronizes to the next
// top-level declaration and keeps going, matching spec.md 4.2's "emits one
// diagnostic ... and attempts to recover to the next statement boundary".
func (p *Parser) Parse() (*Program, diag.Reports) {
	prog := &Program{
		EntryPoint:     "main",
		UsedIntrinsics: make(map[IntrinsicKey]struct{}),
	}

	for !p.isAtEnd() {
		start := p.current
		p.topLevelDecl(prog)
		if p.current == start {
			// Guard against an unrecognized token causing no progress.
			p.errorf(p.peek().Area, "unexpected token %s", p.peek().Kind)
			p.advance()
		}
	}
	return prog, p.reports
}

func (p *Parser) topLevelDecl(prog *Program) {
	attrs := p.attributes()

	switch {
	case p.check(TokenStruct):
		if s := p.structDecl(); s != nil {
			prog.Structs = append(prog.Structs, s)
		}
	case p.check(TokenTypedef):
		if a := p.aliasDecl(); a != nil {
			prog.Aliases = append(prog.Aliases, a)
		}
	case p.check(TokenCBuffer) || p.check(TokenTBuffer):
		if u := p.uniformBufferDecl(); u != nil {
			prog.UniformBuffers = append(prog.UniformBuffers, u)
		}
	default:
		p.declOrFunction(prog, attrs)
	}
}

// declOrFunction parses a leading type specifier and storage/interp
// modifiers, then disambiguates a global variable, buffer/sampler object,
// or function by whether '(' follows the declared name.
func (p *Parser) declOrFunction(prog *Program, attrs []*Attribute) {
	storage := p.storageClass()
	interp := p.interpolationModifier()

	spec := p.typeSpecifier()
	if spec == nil {
		return
	}
	var bufElem *TypeSpecifier
	if _, ok := LookupBufferType(spec.Name); ok && p.match(TokenLess) {
		// `RWStructuredBuffer<float> name`: the element type precedes the name.
		bufElem = p.typeSpecifier()
		p.expect(TokenGreater, "to close buffer element type")
	}

	if !p.check(TokenIdent) {
		p.errorf(p.peek().Area, "expected identifier after type %s", spec.Name)
		return
	}
	name := p.advance().Lexeme

	if p.check(TokenLeftParen) {
		fn := p.functionDecl(attrs, spec, name)
		if fn != nil {
			prog.Functions = append(prog.Functions, fn)
		}
		return
	}

	if bufKind, ok := LookupBufferType(spec.Name); ok {
		buf := p.bufferDecl(name, bufKind, spec)
		if buf.ElemType == nil {
			buf.ElemType = bufElem
		}
		prog.Buffers = append(prog.Buffers, buf)
		return
	}
	if samplerKind, ok := LookupSamplerType(spec.Name); ok {
		smp := p.samplerDecl(name, samplerKind)
		prog.Samplers = append(prog.Samplers, smp)
		return
	}

	v := p.finishVarDecl(name, spec, storage, interp, attrs)
	prog.Globals = append(prog.Globals, v)
	for p.match(TokenComma) {
		if !p.check(TokenIdent) {
			break
		}
		n2 := p.advance().Lexeme
		prog.Globals = append(prog.Globals, p.finishVarDecl(n2, spec, storage, interp, attrs))
	}
	p.expect(TokenSemicolon, "after variable declaration")
}

// --- Declarations ------------------------------------------------------------

func (p *Parser) structDecl() *StructDecl {
	area := p.advance().Area // 'struct'
	name := ""
	if p.check(TokenIdent) {
		name = p.advance().Lexeme
	}
	base := ""
	if p.match(TokenColon) {
		if p.check(TokenIdent) {
			base = p.advance().Lexeme
		}
	}
	s := &StructDecl{Area: area, Name: name, BaseName: base}
	if !p.expect(TokenLeftBrace, "to open struct body") {
		return s
	}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		s.Members = append(s.Members, p.structMember())
	}
	p.expect(TokenRightBrace, "to close struct body")
	p.expect(TokenSemicolon, "after struct declaration")
	return s
}

func (p *Parser) structMember() *VarDecl {
	storage := p.storageClass()
	interp := p.interpolationModifier()
	spec := p.typeSpecifier()
	if spec == nil {
		p.advance()
		return &VarDecl{Area: p.previous().Area}
	}
	name := ""
	if p.check(TokenIdent) {
		name = p.advance().Lexeme
	}
	v := p.finishVarDecl(name, spec, storage, interp, nil)
	p.expect(TokenSemicolon, "after struct member")
	return v
}

func (p *Parser) aliasDecl() *AliasDecl {
	area := p.advance().Area // 'typedef'
	spec := p.typeSpecifier()
	name := ""
	if p.check(TokenIdent) {
		name = p.advance().Lexeme
	}
	p.expect(TokenSemicolon, "after typedef")
	return &AliasDecl{Area: area, Name: name, Type: spec}
}

func (p *Parser) uniformBufferDecl() *UniformBufferDeclStmt {
	isTBuf := p.check(TokenTBuffer)
	area := p.advance().Area // 'cbuffer'/'tbuffer'
	name := ""
	if p.check(TokenIdent) {
		name = p.advance().Lexeme
	}
	reg := p.registerBinding()
	u := &UniformBufferDeclStmt{Area: area, Name: name, IsTBuf: isTBuf, Register: reg}
	if !p.expect(TokenLeftBrace, "to open uniform buffer body") {
		return u
	}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		u.Members = append(u.Members, p.uniformBufferMember())
	}
	p.expect(TokenRightBrace, "to close uniform buffer body")
	p.expect(TokenSemicolon, "after uniform buffer declaration")
	return u
}

func (p *Parser) uniformBufferMember() *VarDecl {
	spec := p.typeSpecifier()
	if spec == nil {
		p.advance()
		return &VarDecl{Area: p.previous().Area}
	}
	name := ""
	if p.check(TokenIdent) {
		name = p.advance().Lexeme
	}
	v := p.finishVarDecl(name, spec, StorageUniform, InterpDefault, nil)
	p.expect(TokenSemicolon, "after uniform buffer member")
	return v
}

func (p *Parser) bufferDecl(name string, kind BufferType, outer *TypeSpecifier) *BufferDecl {
	var elem *TypeSpecifier
	if p.match(TokenLess) {
		elem = p.typeSpecifier()
		p.expect(TokenGreater, "to close buffer element type")
	}
	reg := p.registerBinding()
	p.expect(TokenSemicolon, "after buffer declaration")
	return &BufferDecl{Area: outer.Area, Name: name, BufferKind: kind, ElemType: elem, Register: reg}
}

func (p *Parser) samplerDecl(name string, kind SamplerType) *SamplerDecl {
	s := &SamplerDecl{Name: name, SamplerKind: kind}
	s.Register = p.registerBinding()
	if p.match(TokenLeftBrace) {
		for !p.check(TokenRightBrace) && !p.isAtEnd() {
			s.Values = append(s.Values, p.samplerValue())
		}
		p.expect(TokenRightBrace, "to close sampler_state body")
	}
	p.expect(TokenSemicolon, "after sampler declaration")
	return s
}

func (p *Parser) samplerValue() *SamplerValue {
	area := p.peek().Area
	key := ""
	if p.check(TokenIdent) {
		key = p.advance().Lexeme
	}
	p.expect(TokenEqual, "in sampler_state entry")
	value := ""
	if !p.check(TokenSemicolon) {
		value = p.advance().Lexeme
	}
	p.expect(TokenSemicolon, "after sampler_state entry")
	return &SamplerValue{Area: area, Key: key, Value: value}
}

func (p *Parser) finishVarDecl(name string, spec *TypeSpecifier, storage StorageClass, interp InterpolationModifier, attrs []*Attribute) *VarDecl {
	v := &VarDecl{Name: name, Type: spec, Storage: storage, Interp: interp, Attributes: attrs}
	v.Area = spec.Area
	for p.check(TokenLeftBracket) {
		spec.Dimensions = append(spec.Dimensions, p.arrayDimension())
	}
	if p.match(TokenColon) {
		v.Semantic = p.semantic()
	}
	if rb := p.registerBinding(); rb != nil {
		v.Register = rb
	}
	if p.match(TokenColon) {
		if p.check(TokenPackOffset) {
			v.PackOffset = p.packOffset()
		} else {
			v.Semantic = p.semantic()
		}
	}
	if p.match(TokenEqual) {
		v.Init = p.assignmentExpr()
	}
	return v
}

func (p *Parser) functionDecl(attrs []*Attribute, ret *TypeSpecifier, name string) *FunctionDeclStmt {
	area := ret.Area
	p.expect(TokenLeftParen, "to open parameter list")
	var params []*ParamDecl
	for !p.check(TokenRightParen) && !p.isAtEnd() {
		params = append(params, p.paramDecl())
		if !p.match(TokenComma) {
			break
		}
	}
	p.expect(TokenRightParen, "to close parameter list")

	fn := &FunctionDeclStmt{Area: area, Name: name, Params: params, ReturnType: ret, Attributes: attrs}
	if p.match(TokenColon) {
		fn.ReturnSem = p.semantic()
	}
	if p.match(TokenSemicolon) {
		fn.IsForwardDecl = true
		return fn
	}
	fn.Body = p.codeBlock()
	return fn
}

func (p *Parser) paramDecl() *ParamDecl {
	storage := StorageIn
	switch {
	case p.match(TokenIn):
		storage = StorageIn
	case p.match(TokenOut):
		storage = StorageOut
	case p.match(TokenInOut):
		storage = StorageInOut
	}
	_ = p.storageClass() // const/precise/etc. on a parameter; not separately tracked
	spec := p.typeSpecifier()
	name := ""
	if p.check(TokenIdent) {
		name = p.advance().Lexeme
	}
	param := &ParamDecl{Type: spec, Name: name, Storage: storage}
	if spec != nil {
		param.Area = spec.Area
	}
	for p.check(TokenLeftBracket) {
		spec.Dimensions = append(spec.Dimensions, p.arrayDimension())
	}
	if p.match(TokenColon) {
		param.Semantic = p.semantic()
	}
	if p.match(TokenEqual) {
		param.Default = p.assignmentExpr()
	}
	return param
}

// --- Type specifiers, attributes, annotations --------------------------------

func (p *Parser) storageClass() StorageClass {
	switch {
	case p.match(TokenExtern):
		return StorageExtern
	case p.match(TokenPrecise):
		return StoragePrecise
	case p.match(TokenShared):
		return StorageShared
	case p.match(TokenStatic):
		return StorageStatic
	case p.match(TokenUniform):
		return StorageUniform
	case p.match(TokenVolatile):
		return StorageVolatile
	case p.match(TokenConst):
		return StorageConst
	default:
		return StorageNone
	}
}

func (p *Parser) interpolationModifier() InterpolationModifier {
	switch {
	case p.match(TokenLinear):
		return InterpLinear
	case p.match(TokenCentroid):
		return InterpCentroid
	case p.match(TokenNoInterpolation):
		return InterpNoInterpolation
	case p.match(TokenNoPerspective):
		return InterpNoPerspective
	case p.match(TokenSample):
		return InterpSample
	default:
		return InterpDefault
	}
}

func (p *Parser) attributes() []*Attribute {
	var attrs []*Attribute
	for p.check(TokenLeftBracket) {
		save := p.current
		attr := p.tryAttribute()
		if attr == nil {
			p.current = save
			break
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

// tryAttribute parses one `[name(args...)]` or `[name]`. It returns nil
// without consuming input if the bracket turns out to belong to an array
// dimension instead (disambiguated by the caller restoring p.current).
func (p *Parser) tryAttribute() *Attribute {
	area := p.advance().Area // '['
	if !p.check(TokenIdent) {
		return nil
	}
	name := p.advance().Lexeme
	attr := &Attribute{Area: area, Name: name}
	if p.match(TokenLeftParen) {
		for !p.check(TokenRightParen) && !p.isAtEnd() {
			attr.Args = append(attr.Args, p.assignmentExpr())
			if !p.match(TokenComma) {
				break
			}
		}
		if !p.match(TokenRightParen) {
			return nil
		}
	}
	if !p.match(TokenRightBracket) {
		return nil
	}
	return attr
}

func (p *Parser) arrayDimension() *ArrayDimension {
	area := p.advance().Area // '['
	dim := &ArrayDimension{Area: area, Size: 0}
	if !p.check(TokenRightBracket) {
		if expr := p.assignmentExpr(); expr != nil {
			if lit, ok := expr.(*LiteralExpr); ok && lit.Tok.Kind == TokenIntLiteral {
				if n, err := strconv.Atoi(lit.Tok.Lexeme); err == nil {
					dim.Size = n
				}
			}
		}
	}
	p.expect(TokenRightBracket, "to close array dimension")
	return dim
}

func (p *Parser) registerBinding() *RegisterBinding {
	if !p.check(TokenColon) {
		return nil
	}
	save := p.current
	p.advance() // ':'
	if !p.check(TokenRegister) {
		p.current = save
		return nil
	}
	area := p.advance().Area
	p.expect(TokenLeftParen, "to open register binding")
	rb := &RegisterBinding{Area: area}
	if p.check(TokenIdent) {
		tok := p.advance()
		if len(tok.Lexeme) > 0 {
			rb.Letter = tok.Lexeme[0]
			if n, err := strconv.Atoi(tok.Lexeme[1:]); err == nil {
				rb.Slot = n
			}
		}
	}
	if p.match(TokenComma) {
		if p.check(TokenIdent) {
			tok := p.advance()
			if n, err := strconv.Atoi(strings.TrimPrefix(tok.Lexeme, "space")); err == nil {
				rb.Space = n
				rb.HasSpace = true
			}
		}
	}
	p.expect(TokenRightParen, "to close register binding")
	return rb
}

func (p *Parser) packOffset() *PackOffset {
	area := p.advance().Area // 'packoffset'
	p.expect(TokenLeftParen, "to open packoffset")
	po := &PackOffset{Area: area}
	if p.check(TokenIdent) {
		tok := p.advance().Lexeme
		if len(tok) > 1 {
			if n, err := strconv.Atoi(tok[1:]); err == nil {
				po.Register = n
			}
		}
		if p.match(TokenDot) {
			if p.check(TokenIdent) {
				po.Component = p.advance().Lexeme
			}
		}
	}
	p.expect(TokenRightParen, "to close packoffset")
	return po
}

func (p *Parser) semantic() *IndexedSemantic {
	if !p.check(TokenIdent) {
		return nil
	}
	tok := p.advance().Lexeme
	sem, ok := ParseIndexedSemantic(tok)
	if !ok {
		return nil
	}
	return &sem
}

// typeSpecifier parses type modifiers plus a base/user type name and
// returns a TypeSpecifier whose Resolved field is filled later during
// binding (resolve.Bind), not here: the parser only records the spelling.
func (p *Parser) typeSpecifier() *TypeSpecifier {
	spec := &TypeSpecifier{Area: p.peek().Area}
	for {
		switch {
		case p.match(TokenConst):
			spec.Const = true
		case p.match(TokenRowMajor):
			spec.RowMajor = true
		case p.match(TokenColumnMajor):
			spec.ColumnMajor = true
		case p.match(TokenSNorm):
			spec.SNorm = true
		case p.match(TokenUNorm):
			spec.UNorm = true
		default:
			goto done
		}
	}
done:
	if p.check(TokenVoid) {
		p.advance()
		spec.Name = "void"
		return spec
	}
	if !p.check(TokenIdent) {
		p.errorf(p.peek().Area, "expected type name, got %s", p.peek().Kind)
		return nil
	}
	spec.Name = p.advance().Lexeme
	return spec
}

// --- Statements ---------------------------------------------------------------

func (p *Parser) codeBlock() *CodeBlock {
	area := p.peek().Area
	block := &CodeBlock{Area: area}
	if !p.expect(TokenLeftBrace, "to open block") {
		return block
	}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		block.Stmts = append(block.Stmts, p.statement())
	}
	p.expect(TokenRightBrace, "to close block")
	return block
}

func (p *Parser) statement() Stmt {
	switch {
	case p.check(TokenLeftBrace):
		return &CodeBlockStmt{Area: p.peek().Area, Body: p.codeBlock()}
	case p.check(TokenSemicolon):
		return &NullStmt{Area: p.advance().Area}
	case p.check(TokenIf):
		return p.ifStmt()
	case p.check(TokenFor):
		return p.forStmt()
	case p.check(TokenWhile):
		return p.whileStmt()
	case p.check(TokenDo):
		return p.doWhileStmt()
	case p.check(TokenSwitch):
		return p.switchStmt()
	case p.check(TokenReturn):
		return p.returnStmt()
	case p.check(TokenBreak):
		return &ControlTransferStmt{Area: p.advanceSemi(), Which: ControlBreak}
	case p.check(TokenContinue):
		return &ControlTransferStmt{Area: p.advanceSemi(), Which: ControlContinue}
	case p.check(TokenDiscard):
		return &ControlTransferStmt{Area: p.advanceSemi(), Which: ControlDiscard}
	case p.check(TokenStruct):
		return &StructDeclStmt{Area: p.peek().Area, Decl: p.structDecl()}
	case p.check(TokenTypedef):
		return &AliasDeclStmt{Area: p.peek().Area, Decl: p.aliasDecl()}
	default:
		return p.localDeclOrExprStmt()
	}
}

// advanceSemi consumes the current keyword token and its trailing ';',
// returning the keyword's area.
func (p *Parser) advanceSemi() Area {
	area := p.advance().Area
	p.expect(TokenSemicolon, "after statement")
	return area
}

func (p *Parser) ifStmt() Stmt {
	area := p.advance().Area // 'if'
	p.expect(TokenLeftParen, "after if")
	cond := p.expression()
	p.expect(TokenRightParen, "after if condition")
	then := p.codeBlockOrSingle()
	stmt := &IfStmt{Area: area, Cond: cond, Then: then}
	if p.match(TokenElse) {
		stmt.Else = p.elseStmt()
	}
	return stmt
}

func (p *Parser) elseStmt() *ElseStmt {
	area := p.previous().Area
	if p.check(TokenIf) {
		nested := p.ifStmt().(*IfStmt)
		return &ElseStmt{Area: area, Nested: nested}
	}
	return &ElseStmt{Area: area, Body: p.codeBlockOrSingle()}
}

// codeBlockOrSingle parses a brace block, or wraps a single statement in a
// synthetic CodeBlock for uniform downstream handling.
func (p *Parser) codeBlockOrSingle() *CodeBlock {
	if p.check(TokenLeftBrace) {
		return p.codeBlock()
	}
	area := p.peek().Area
	stmt := p.statement()
	return &CodeBlock{Area: area, Stmts: []Stmt{stmt}}
}

func (p *Parser) forStmt() Stmt {
	area := p.advance().Area // 'for'
	p.expect(TokenLeftParen, "after for")
	var init Stmt
	if !p.check(TokenSemicolon) {
		init = p.localDeclOrExprStmt()
	} else {
		p.advance()
	}
	var cond Expr
	if !p.check(TokenSemicolon) {
		cond = p.expression()
	}
	p.expect(TokenSemicolon, "after for condition")
	var iter Expr
	if !p.check(TokenRightParen) {
		iter = p.expression()
	}
	p.expect(TokenRightParen, "after for iteration")
	return &ForStmt{Area: area, Init: init, Cond: cond, Iter: iter, Body: p.codeBlockOrSingle()}
}

func (p *Parser) whileStmt() Stmt {
	area := p.advance().Area
	p.expect(TokenLeftParen, "after while")
	cond := p.expression()
	p.expect(TokenRightParen, "after while condition")
	return &WhileStmt{Area: area, Cond: cond, Body: p.codeBlockOrSingle()}
}

func (p *Parser) doWhileStmt() Stmt {
	area := p.advance().Area
	body := p.codeBlockOrSingle()
	p.expect(TokenWhile, "after do block")
	p.expect(TokenLeftParen, "after while")
	cond := p.expression()
	p.expect(TokenRightParen, "after while condition")
	p.expect(TokenSemicolon, "after do-while")
	return &DoWhileStmt{Area: area, Body: body, Cond: cond}
}

func (p *Parser) switchStmt() Stmt {
	area := p.advance().Area
	p.expect(TokenLeftParen, "after switch")
	sel := p.expression()
	p.expect(TokenRightParen, "after switch selector")
	s := &SwitchStmt{Area: area, Sel: sel}
	p.expect(TokenLeftBrace, "to open switch body")
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		s.Cases = append(s.Cases, p.switchCase())
	}
	p.expect(TokenRightBrace, "to close switch body")
	return s
}

func (p *Parser) switchCase() *SwitchCase {
	area := p.peek().Area
	c := &SwitchCase{Area: area}
	if p.match(TokenCase) {
		c.Value = p.expression()
	} else {
		p.expect(TokenDefault, "in switch body")
		c.IsDefault = true
	}
	p.expect(TokenColon, "after case label")
	for !p.check(TokenCase) && !p.check(TokenDefault) && !p.check(TokenRightBrace) && !p.isAtEnd() {
		c.Body = append(c.Body, p.statement())
	}
	return c
}

func (p *Parser) returnStmt() Stmt {
	area := p.advance().Area
	r := &ReturnStmt{Area: area}
	if !p.check(TokenSemicolon) {
		r.Value = p.expression()
	}
	p.expect(TokenSemicolon, "after return")
	return r
}

// localDeclOrExprStmt disambiguates a local variable declaration from an
// expression statement by attempting to parse a type specifier; if what
// follows the candidate type name isn't an identifier, it backtracks and
// parses an expression statement instead.
func (p *Parser) localDeclOrExprStmt() Stmt {
	if p.looksLikeLocalDecl() {
		area := p.peek().Area
		storage := p.storageClass()
		interp := p.interpolationModifier()
		spec := p.typeSpecifier()
		var decls []*VarDecl
		if p.check(TokenIdent) {
			name := p.advance().Lexeme
			decls = append(decls, p.finishVarDecl(name, spec, storage, interp, nil))
			for p.match(TokenComma) {
				if !p.check(TokenIdent) {
					break
				}
				n2 := p.advance().Lexeme
				decls = append(decls, p.finishVarDecl(n2, spec, storage, interp, nil))
			}
		}
		p.expect(TokenSemicolon, "after local variable declaration")
		return &VarDeclStmt{Area: area, Decls: decls}
	}

	area := p.peek().Area
	expr := p.expression()
	p.expect(TokenSemicolon, "after expression statement")
	return &ExprStmt{Area: area, Expr: expr}
}

// looksLikeLocalDecl peeks ahead without consuming to tell a declaration
// ("float x = ...") from an expression statement ("x = ...", "f(x);").
func (p *Parser) looksLikeLocalDecl() bool {
	switch p.peek().Kind {
	case TokenConst, TokenStatic, TokenPrecise, TokenShared, TokenRowMajor, TokenColumnMajor, TokenSNorm, TokenUNorm:
		return true
	case TokenIdent:
		// A type name followed by another identifier is a declaration
		// ("float4 x"); a type name alone or followed by '(' is a call or
		// constructor expression ("float4(...)").
		if p.current+1 < len(p.tokens) && p.tokens[p.current+1].Kind == TokenIdent {
			return true
		}
		return false
	default:
		return false
	}
}

// --- Expressions: precedence climbing ----------------------------------------

func (p *Parser) expression() Expr {
	expr := p.assignmentExpr()
	if p.check(TokenComma) {
		list := &ListExpr{Area: expr.Pos(), Items: []Expr{expr}}
		for p.match(TokenComma) {
			list.Items = append(list.Items, p.assignmentExpr())
		}
		return list
	}
	return expr
}

var assignOps = map[TokenKind]BinaryOp{
	TokenEqual:               OpAssign,
	TokenPlusEqual:           OpAddAssign,
	TokenMinusEqual:          OpSubAssign,
	TokenStarEqual:           OpMulAssign,
	TokenSlashEqual:          OpDivAssign,
	TokenPercentEqual:        OpModAssign,
	TokenAmpEqual:            OpAndAssign,
	TokenPipeEqual:           OpOrAssign,
	TokenCaretEqual:          OpXorAssign,
	TokenLessLessEqual:       OpShlAssign,
	TokenGreaterGreaterEqual: OpShrAssign,
}

func (p *Parser) assignmentExpr() Expr {
	lhs := p.ternaryExpr()
	if op, ok := assignOps[p.peek().Kind]; ok {
		area := p.advance().Area
		rhs := p.assignmentExpr() // right-associative
		return &BinaryExpr{Area: area, Op: op, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *Parser) ternaryExpr() Expr {
	cond := p.logicalOr()
	if p.match(TokenQuestion) {
		then := p.assignmentExpr()
		p.expect(TokenColon, "in ternary expression")
		els := p.assignmentExpr()
		return &TernaryExpr{Area: cond.Pos(), Cond: cond, Then: then, Else: els}
	}
	return cond
}

func (p *Parser) logicalOr() Expr  { return p.binaryLevel(p.logicalAnd, map[TokenKind]BinaryOp{TokenPipePipe: OpLogicalOr}) }
func (p *Parser) logicalAnd() Expr { return p.binaryLevel(p.bitwiseOr, map[TokenKind]BinaryOp{TokenAmpAmp: OpLogicalAnd}) }
func (p *Parser) bitwiseOr() Expr  { return p.binaryLevel(p.bitwiseXor, map[TokenKind]BinaryOp{TokenPipe: OpOr}) }
func (p *Parser) bitwiseXor() Expr { return p.binaryLevel(p.bitwiseAnd, map[TokenKind]BinaryOp{TokenCaret: OpXor}) }
func (p *Parser) bitwiseAnd() Expr { return p.binaryLevel(p.equality, map[TokenKind]BinaryOp{TokenAmpersand: OpAnd}) }

func (p *Parser) equality() Expr {
	return p.binaryLevel(p.relational, map[TokenKind]BinaryOp{TokenEqualEqual: OpEqual, TokenBangEqual: OpNotEqual})
}

func (p *Parser) relational() Expr {
	return p.binaryLevel(p.shift, map[TokenKind]BinaryOp{
		TokenLess: OpLess, TokenLessEqual: OpLessEqual,
		TokenGreater: OpGreater, TokenGreaterEqual: OpGreaterEqual,
	})
}

func (p *Parser) shift() Expr {
	return p.binaryLevel(p.additive, map[TokenKind]BinaryOp{TokenLessLess: OpShl, TokenGreaterGreater: OpShr})
}

func (p *Parser) additive() Expr {
	return p.binaryLevel(p.multiplicative, map[TokenKind]BinaryOp{TokenPlus: OpAdd, TokenMinus: OpSub})
}

func (p *Parser) multiplicative() Expr {
	return p.binaryLevel(p.unary, map[TokenKind]BinaryOp{TokenStar: OpMul, TokenSlash: OpDiv, TokenPercent: OpMod})
}

// binaryLevel is a shared left-associative binary operator parser
// parameterized by the next-tighter precedence level and the operator set
// recognized at this level.
func (p *Parser) binaryLevel(next func() Expr, ops map[TokenKind]BinaryOp) Expr {
	lhs := next()
	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return lhs
		}
		area := p.advance().Area
		rhs := next()
		lhs = &BinaryExpr{Area: area, Op: op, LHS: lhs, RHS: rhs}
	}
}

func (p *Parser) unary() Expr {
	switch {
	case p.check(TokenMinus):
		area := p.advance().Area
		return &UnaryExpr{Area: area, Op: OpNeg, Operand: p.unary()}
	case p.check(TokenPlus):
		area := p.advance().Area
		return &UnaryExpr{Area: area, Op: OpPos, Operand: p.unary()}
	case p.check(TokenBang):
		area := p.advance().Area
		return &UnaryExpr{Area: area, Op: OpNot, Operand: p.unary()}
	case p.check(TokenTilde):
		area := p.advance().Area
		return &UnaryExpr{Area: area, Op: OpBitNot, Operand: p.unary()}
	case p.check(TokenPlusPlus):
		area := p.advance().Area
		return &UnaryExpr{Area: area, Op: OpPreInc, Operand: p.unary()}
	case p.check(TokenMinusMinus):
		area := p.advance().Area
		return &UnaryExpr{Area: area, Op: OpPreDec, Operand: p.unary()}
	case p.check(TokenLeftParen) && p.castAhead():
		area := p.advance().Area // '('
		spec := p.typeSpecifier()
		p.expect(TokenRightParen, "to close cast")
		return &CastExpr{Area: area, Target: spec, Value: p.unary()}
	default:
		return p.postfixExpr()
	}
}

// castAhead reports whether the parenthesized group starting at p.current
// (which must be a '(') is a C-style cast `(Type)` rather than a
// parenthesized expression: true when a type-name token is immediately
// followed by ')'.
func (p *Parser) castAhead() bool {
	if p.current+2 >= len(p.tokens) {
		return false
	}
	nameTok := p.tokens[p.current+1]
	closeTok := p.tokens[p.current+2]
	if nameTok.Kind != TokenIdent || closeTok.Kind != TokenRightParen {
		return false
	}
	_, isBuiltin := LookupBuiltinType(nameTok.Lexeme)
	return isBuiltin
}

func (p *Parser) postfixExpr() Expr {
	expr := p.primaryExpr()
	for {
		switch {
		case p.check(TokenDot):
			area := p.advance().Area
			if !p.check(TokenIdent) {
				p.errorf(p.peek().Area, "expected member name after '.'")
				return expr
			}
			name := p.advance().Lexeme
			expr = p.appendSuffix(expr, AccessSuffix{Kind: AccessMember, Area: area, Name: name})
		case p.check(TokenLeftBracket):
			area := p.advance().Area
			idx := p.expression()
			p.expect(TokenRightBracket, "to close index expression")
			expr = p.appendSuffix(expr, AccessSuffix{Kind: AccessIndex, Area: area, Index: idx})
		case p.check(TokenLeftParen):
			area := p.advance().Area
			var args []Expr
			for !p.check(TokenRightParen) && !p.isAtEnd() {
				args = append(args, p.assignmentExpr())
				if !p.match(TokenComma) {
					break
				}
			}
			p.expect(TokenRightParen, "to close call arguments")
			expr = p.appendSuffix(expr, AccessSuffix{Kind: AccessCall, Area: area, Args: args})
		case p.check(TokenPlusPlus):
			area := p.advance().Area
			expr = &PostUnaryExpr{Area: area, Op: OpPostInc, Operand: expr}
		case p.check(TokenMinusMinus):
			area := p.advance().Area
			expr = &PostUnaryExpr{Area: area, Op: OpPostDec, Operand: expr}
		default:
			return expr
		}
	}
}

// appendSuffix folds a new suffix onto expr, merging into an existing
// AccessExpr rather than nesting access chains, per the design-notes
// consolidation of FunctionCall/SuffixExpr/VarAccessExpr into one node.
func (p *Parser) appendSuffix(expr Expr, suf AccessSuffix) Expr {
	if ts, ok := expr.(*TypeSpecifierExpr); ok && suf.Kind == AccessCall {
		// `float4(...)`: a constructor call, nil Prefix, type name on the call.
		suf.Name = ts.Spec.Name
		return &AccessExpr{Area: expr.Pos(), Suffixes: []AccessSuffix{suf}}
	}
	if acc, ok := expr.(*AccessExpr); ok {
		if id, isIdent := acc.Prefix.(*VarIdent); isIdent && suf.Kind == AccessCall && len(acc.Suffixes) == 0 {
			// `f(...)`: a free call, nil Prefix, callee name on the call.
			acc.Prefix, suf.Name = nil, id.Name
		} else if n := len(acc.Suffixes); suf.Kind == AccessCall && n > 0 && acc.Suffixes[n-1].Kind == AccessMember {
			// `x.m(...)`: the member link becomes the method call's name.
			suf.Name = acc.Suffixes[n-1].Name
			acc.Suffixes = acc.Suffixes[:n-1]
		}
		acc.Suffixes = append(acc.Suffixes, suf)
		return acc
	}
	return &AccessExpr{Area: expr.Pos(), Prefix: expr, Suffixes: []AccessSuffix{suf}}
}

func (p *Parser) primaryExpr() Expr {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenStringLiteral, TokenBoolLiteral:
		p.advance()
		return &LiteralExpr{Area: tok.Area, Tok: tok}
	case TokenIdent:
		if _, ok := LookupBuiltinType(tok.Lexeme); ok {
			p.advance()
			spec := &TypeSpecifier{Area: tok.Area, Name: tok.Lexeme}
			return &TypeSpecifierExpr{Area: tok.Area, Spec: spec}
		}
		p.advance()
		return &AccessExpr{Area: tok.Area, Prefix: &VarIdent{Area: tok.Area, Name: tok.Lexeme}}
	case TokenLeftParen:
		p.advance()
		inner := p.expression()
		p.expect(TokenRightParen, "to close parenthesized expression")
		return inner
	case TokenLeftBrace:
		return p.initializerExpr()
	default:
		p.errorf(tok.Area, "unexpected token %s in expression", tok.Kind)
		p.advance()
		return &NullExpr{Area: tok.Area}
	}
}

func (p *Parser) initializerExpr() Expr {
	area := p.advance().Area // '{'
	init := &InitializerExpr{Area: area}
	for !p.check(TokenRightBrace) && !p.isAtEnd() {
		init.Items = append(init.Items, p.assignmentExpr())
		if !p.match(TokenComma) {
			break
		}
	}
	p.expect(TokenRightBrace, "to close initializer list")
	return init
}

// --- Token stream helpers ------------------------------------------------------

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) peek() Token { return p.tokens[p.current] }

func (p *Parser) previous() Token { return p.tokens[p.current-1] }

func (p *Parser) isAtEnd() bool { return p.peek().Kind == TokenEOF }

func (p *Parser) check(kind TokenKind) bool {
	return !p.isAtEnd() && p.peek().Kind == kind
}

func (p *Parser) match(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind, context string) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	p.errorf(p.peek().Area, "expected %s %s, got %s", kind, context, p.peek().Kind)
	return false
}

func (p *Parser) errorf(area Area, format string, args ...any) {
	p.reports.Addf(area.ToDiag(), p.source, format, args...)
}
